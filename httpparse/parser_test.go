package httpparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, p *Parser, input []byte, splits []int) ParseResult {
	t.Helper()
	start := 0
	var result ParseResult
	var err error
	for _, s := range append(splits, len(input)) {
		result, err = p.Feed(input[start:s])
		require.NoError(t, err)
		start = s
		if result == ResultDone {
			break
		}
	}
	return result
}

func TestParseSimpleGET(t *testing.T) {
	input := []byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n")
	p := NewParser(KindRequest)
	res := feedAll(t, p, input, nil)
	require.Equal(t, ResultDone, res)
	require.Equal(t, "GET", p.Request().Method)
	require.Equal(t, "/", p.Request().Resource)
	require.Equal(t, "example.com", p.Request().Header.Get("Host"))
}

func TestParseGETWithQuery(t *testing.T) {
	input := []byte("GET /search?q=test&limit=10 HTTP/1.1\r\n\r\n")
	p := NewParser(KindRequest)
	res := feedAll(t, p, input, nil)
	require.Equal(t, ResultDone, res)
	require.Equal(t, "/search", p.Request().Resource)
	require.Equal(t, "test", p.Request().Query().Get("q"))
	require.Equal(t, "10", p.Request().Query().Get("limit"))
}

func TestParseResumableAcrossArbitraryPartitions(t *testing.T) {
	input := []byte("POST /submit HTTP/1.1\r\nHost: a\r\nContent-Length: 5\r\n\r\nhello")

	partitions := [][]int{
		nil,
		{1},
		{5, 6, 7},
		{10, 20, 30, 40},
		make1ByteSplits(len(input)),
	}

	for _, splits := range partitions {
		p := NewParser(KindRequest)
		res := feedAll(t, p, input, splits)
		require.Equal(t, ResultDone, res, "splits=%v", splits)
		require.Equal(t, "POST", p.Request().Method)
		require.Equal(t, "/submit", p.Request().Resource)
		require.Equal(t, []byte("hello"), p.Request().Body)
		require.True(t, p.Request().IsValid)
	}
}

func make1ByteSplits(n int) []int {
	splits := make([]int, 0, n)
	for i := 1; i < n; i++ {
		splits = append(splits, i)
	}
	return splits
}

func TestParseChunkedBody(t *testing.T) {
	input := []byte("POST /echo HTTP/1.1\r\nHost: a\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"5\r\nhello\r\n7\r\n, world\r\n0\r\n\r\n")
	p := NewParser(KindRequest)
	res := feedAll(t, p, input, nil)
	require.Equal(t, ResultDone, res)
	require.Equal(t, "hello, world", string(p.Request().Body))
	require.True(t, p.Request().IsValid)
}

func TestParseChunkedBodyFragmented(t *testing.T) {
	input := []byte("POST /echo HTTP/1.1\r\nHost: a\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"5\r\nhello\r\n7\r\n, world\r\n0\r\n\r\n")
	p := NewParser(KindRequest)
	res := feedAll(t, p, input, make1ByteSplits(len(input)))
	require.Equal(t, ResultDone, res)
	require.Equal(t, "hello, world", string(p.Request().Body))
}

func TestRejectsContentLengthAndTransferEncoding(t *testing.T) {
	input := []byte("POST / HTTP/1.1\r\nContent-Length: 5\r\nTransfer-Encoding: chunked\r\n\r\nhello")
	p := NewParser(KindRequest)
	_, err := p.Feed(input)
	require.ErrorIs(t, err, ErrContentLengthWithTransferEncoding)
}

func TestRejectsDuplicateConflictingContentLength(t *testing.T) {
	input := []byte("POST / HTTP/1.1\r\nContent-Length: 5\r\nContent-Length: 6\r\n\r\nhello!")
	p := NewParser(KindRequest)
	_, err := p.Feed(input)
	require.ErrorIs(t, err, ErrDuplicateContentLength)
}

func TestPrematureEOFOnContentLengthIsError(t *testing.T) {
	input := []byte("POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nhello")
	p := NewParser(KindRequest)
	res, err := p.Feed(input)
	require.Equal(t, ResultNeedMore, res)
	require.NoError(t, err)

	res, err = p.FeedEOF()
	require.Equal(t, ResultError, res)
	require.ErrorIs(t, err, ErrUnexpectedEOF)
	require.False(t, p.Request().IsValid)
}

func TestHeadResponseWithContentLengthHasNoBody(t *testing.T) {
	input := []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\n")
	p := NewParser(KindResponse)
	p.Response().RequestMethod = "HEAD"

	res, err := p.Feed(input)
	require.NoError(t, err)
	require.Equal(t, ResultDone, res)
	require.True(t, p.Response().IsValid)
	require.Empty(t, p.Response().Body)
}

func TestNoContentResponseWithTransferEncodingHasNoBody(t *testing.T) {
	input := []byte("HTTP/1.1 204 No Content\r\nTransfer-Encoding: chunked\r\n\r\n")
	p := NewParser(KindResponse)

	res, err := p.Feed(input)
	require.NoError(t, err)
	require.Equal(t, ResultDone, res)
	require.True(t, p.Response().IsValid)
	require.Empty(t, p.Response().Body)
}

func TestResponseBodyUntilEOFSucceedsOnEOF(t *testing.T) {
	input := []byte("HTTP/1.1 200 OK\r\n\r\nhello world")
	p := NewParser(KindResponse)
	res, err := p.Feed(input)
	require.NoError(t, err)
	require.Equal(t, ResultNeedMore, res)

	res, err = p.FeedEOF()
	require.NoError(t, err)
	require.Equal(t, ResultDone, res)
	require.True(t, p.Response().IsValid)
	require.Equal(t, "hello world", string(p.Response().Body))
}

func TestPipeliningLeavesLeftoverBytes(t *testing.T) {
	input := []byte("GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n")
	p := NewParser(KindRequest)
	res, err := p.Feed(input)
	require.NoError(t, err)
	require.Equal(t, ResultDone, res)
	require.Equal(t, "/a", p.Request().Resource)

	leftover := p.TakeLeftover()
	require.Equal(t, "GET /b HTTP/1.1\r\n\r\n", string(leftover))

	p.Reset(KindRequest)
	res, err = p.Feed(leftover)
	require.NoError(t, err)
	require.Equal(t, ResultDone, res)
	require.Equal(t, "/b", p.Request().Resource)
}

func TestBase64RoundTrip(t *testing.T) {
	original := []byte("alice:wonderland")
	encoded := Base64Encode(original)
	decoded, err := Base64Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestURLEncodeDecodeRoundTrip(t *testing.T) {
	original := "a value with spaces & symbols=?"
	encoded := URLEncode(original)
	decoded, err := URLDecode(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}
