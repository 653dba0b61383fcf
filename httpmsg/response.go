package httpmsg

import (
	"net"
	"strconv"
)

// Response is an outbound HTTP message: status line plus Message.
type Response struct {
	Message

	StatusCode int

	// StatusMessage overrides the default reason phrase for StatusCode
	// when non-empty.
	StatusMessage string

	// RequestMethod is copied from the originating Request so
	// ImpliesZeroBody can apply the HEAD rule without a back-reference
	// to the request object.
	RequestMethod string
}

// Reset clears the response for pooled reuse.
func (resp *Response) Reset() {
	resp.Message.Reset()
	resp.StatusCode = 200
	resp.StatusMessage = ""
	resp.RequestMethod = ""
}

// reasonPhrases covers the status codes this framework's error pages and
// handlers are expected to emit; anything else falls back to "Unknown
// Status".
var reasonPhrases = map[int]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	409: "Conflict",
	411: "Length Required",
	413: "Payload Too Large",
	414: "URI Too Long",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	505: "HTTP Version Not Supported",
}

// ReasonPhrase returns the standard reason phrase for code, or "Unknown
// Status" if code is not one this framework names explicitly.
func ReasonPhrase(code int) string {
	if p, ok := reasonPhrases[code]; ok {
		return p
	}
	return "Unknown Status"
}

// statusLine returns the reason phrase for this response, preferring an
// explicit override.
func (resp *Response) statusLine() string {
	if resp.StatusMessage != "" {
		return resp.StatusMessage
	}
	return ReasonPhrase(resp.StatusCode)
}

var crlf = []byte("\r\n")
var headerSep = []byte(": ")
var finalChunk = []byte("0\r\n\r\n")

// PrepareBuffersForSend assembles the status/request line, header lines,
// blank-line terminator, and body (or chunk frames) into a net.Buffers
// scatter-gather write list — the Go-native equivalent of a
// vector<const_buffer>, since net.Buffers.WriteTo coalesces the writev(2)
// syscall the same way.
func (resp *Response) PrepareBuffersForSend(keepAlive, chunked bool) net.Buffers {
	major := resp.VersionMajor
	minor := resp.VersionMinor
	if major == 0 {
		major, minor = 1, 1
	}

	var bufs net.Buffers
	statusLine := []byte("HTTP/" + strconv.Itoa(major) + "." + strconv.Itoa(minor) + " " +
		strconv.Itoa(resp.StatusCode) + " " + resp.statusLine())
	bufs = append(bufs, statusLine, crlf)

	resp.Header.VisitAll(func(name, value string) bool {
		bufs = append(bufs, []byte(name), headerSep, []byte(value), crlf)
		return true
	})
	bufs = append(bufs, crlf)

	zeroBody := ImpliesZeroBody(resp.RequestMethod, resp.StatusCode)
	switch {
	case zeroBody:
		// no body bytes regardless of what the handler buffered
	case chunked:
		for _, c := range resp.chunks {
			bufs = appendChunkFrame(bufs, c)
		}
		bufs = append(bufs, finalChunk)
	default:
		if len(resp.Body) > 0 {
			bufs = append(bufs, resp.Body)
		}
	}
	return bufs
}

// appendChunkFrame appends one hex-length-prefixed chunk frame (size line,
// CRLF, data, CRLF) to bufs.
func appendChunkFrame(bufs net.Buffers, data []byte) net.Buffers {
	size := []byte(strconv.FormatInt(int64(len(data)), 16))
	bufs = append(bufs, size, crlf, data, crlf)
	return bufs
}
