package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, bufs [][]byte) string {
	t.Helper()
	var out []byte
	for _, b := range bufs {
		out = append(out, b...)
	}
	return string(out)
}

func TestReasonPhraseKnownAndUnknown(t *testing.T) {
	require.Equal(t, "Not Found", ReasonPhrase(404))
	require.Equal(t, "Unknown Status", ReasonPhrase(299))
}

func TestPrepareBuffersForSendNonChunkedBody(t *testing.T) {
	var resp Response
	resp.VersionMajor, resp.VersionMinor = 1, 1
	resp.StatusCode = 200
	resp.RequestMethod = "GET"
	resp.Header.Set("Content-Type", "text/plain")
	resp.Body = []byte("hello")

	bufs := resp.PrepareBuffersForSend(true, false)
	raw := drain(t, bufs)

	require.Contains(t, raw, "HTTP/1.1 200 OK\r\n")
	require.Contains(t, raw, "Content-Type: text/plain\r\n")
	require.Contains(t, raw, "\r\n\r\nhello")
}

func TestPrepareBuffersForSendChunkedBody(t *testing.T) {
	var resp Response
	resp.VersionMajor, resp.VersionMinor = 1, 1
	resp.StatusCode = 200
	resp.RequestMethod = "GET"
	resp.AppendChunk([]byte("hello"))
	resp.AppendChunk([]byte(", world"))

	bufs := resp.PrepareBuffersForSend(true, true)
	raw := drain(t, bufs)

	require.Contains(t, raw, "5\r\nhello\r\n")
	require.Contains(t, raw, "7\r\n, world\r\n")
	require.Contains(t, raw, "0\r\n\r\n")
}

func TestPrepareBuffersForSendZeroBodyStatusOmitsBody(t *testing.T) {
	var resp Response
	resp.VersionMajor, resp.VersionMinor = 1, 1
	resp.StatusCode = 204
	resp.RequestMethod = "GET"
	resp.Body = []byte("should not appear")

	bufs := resp.PrepareBuffersForSend(true, false)
	raw := drain(t, bufs)

	require.NotContains(t, raw, "should not appear")
}

func TestPrepareBuffersForSendHeadRequestOmitsBody(t *testing.T) {
	var resp Response
	resp.VersionMajor, resp.VersionMinor = 1, 1
	resp.StatusCode = 200
	resp.RequestMethod = "HEAD"
	resp.Body = []byte("should not appear")

	bufs := resp.PrepareBuffersForSend(true, false)
	raw := drain(t, bufs)

	require.NotContains(t, raw, "should not appear")
}

func TestPrepareBuffersForSendDefaultsToHTTP11WhenVersionUnset(t *testing.T) {
	var resp Response
	resp.StatusCode = 200
	resp.RequestMethod = "GET"

	bufs := resp.PrepareBuffersForSend(true, false)
	raw := drain(t, bufs)

	require.Contains(t, raw, "HTTP/1.1 200 OK\r\n")
}

func TestStatusMessageOverridesReasonPhrase(t *testing.T) {
	var resp Response
	resp.VersionMajor, resp.VersionMinor = 1, 1
	resp.StatusCode = 200
	resp.StatusMessage = "Totally Fine"
	resp.RequestMethod = "GET"

	bufs := resp.PrepareBuffersForSend(true, false)
	raw := drain(t, bufs)

	require.Contains(t, raw, "HTTP/1.1 200 Totally Fine\r\n")
}
