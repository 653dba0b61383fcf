package httpmsg

import (
	"strings"
)

// Message is the data shared by requests and responses: protocol version,
// headers, and body, plus the transient chunk buffer the parser fills
// during a chunked-transfer read.
type Message struct {
	VersionMajor int
	VersionMinor int

	Header Header
	Body   []byte

	// chunks accumulates individual chunk payloads as the parser reads
	// them; ConcatenateChunks folds them into Body once the terminal
	// zero-length chunk is seen.
	chunks [][]byte

	RemoteIP string

	// IsValid is false when the body ended via a non-recoverable error
	// (e.g. premature EOF on a Content-Length body). A message with
	// IsValid false was still parsed far enough to log, but must not be
	// dispatched to a handler.
	IsValid bool

	// ChunksSupported reports whether this message's peer declared
	// HTTP/1.1 or higher, the minimum version that understands chunked
	// transfer encoding.
	ChunksSupported bool
}

// Reset clears the message for pooled reuse.
func (m *Message) Reset() {
	m.VersionMajor, m.VersionMinor = 1, 1
	m.Header.Reset()
	m.Body = m.Body[:0]
	m.chunks = m.chunks[:0]
	m.RemoteIP = ""
	m.IsValid = false
	m.ChunksSupported = false
}

// ContentType returns the Content-Type header value with any ";charset=…"
// parameter stripped.
func (m *Message) ContentType() string {
	ct := m.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// AppendChunk stores one decoded chunk payload, to be folded into Body by
// ConcatenateChunks once the chunked body is complete.
func (m *Message) AppendChunk(b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	m.chunks = append(m.chunks, cp)
}

// DrainChunks returns every chunk buffered since the last drain, in
// arrival order, and clears the buffer — used by a streaming writer that
// emits each chunk as its own wire frame instead of concatenating them
// into Body.
func (m *Message) DrainChunks() [][]byte {
	out := m.chunks
	m.chunks = nil
	return out
}

// ConcatenateChunks joins every buffered chunk into Body in arrival order
// and clears the chunk buffer, e.g. [0x5, 0x7, 0x0] decodes to a single
// 12-byte Body.
func (m *Message) ConcatenateChunks() {
	total := 0
	for _, c := range m.chunks {
		total += len(c)
	}
	body := make([]byte, 0, total)
	for _, c := range m.chunks {
		body = append(body, c...)
	}
	m.Body = body
	m.chunks = m.chunks[:0]
}

// zeroBodyStatusCodes are response status codes that imply an empty body
// regardless of any Content-Length the handler set (spec §3).
var zeroBodyStatusCodes = map[int]bool{
	204: true,
	205: true,
	304: true,
}

// ImpliesZeroBody reports whether a message with the given request method
// and (for responses) status code must not carry a body on the wire, per
// spec §3: HEAD responses, 1xx, 204, 205, and 304.
func ImpliesZeroBody(requestMethod string, statusCode int) bool {
	if strings.EqualFold(requestMethod, "HEAD") {
		return true
	}
	if statusCode >= 100 && statusCode < 200 {
		return true
	}
	return zeroBodyStatusCodes[statusCode]
}

// CheckKeepAlive implements the HTTP/1.0-vs-1.1 default-persistence rule:
// 1.1 connections are persistent unless "Connection: close" is present;
// 1.0 connections are closed unless "Connection: keep-alive" is present.
func CheckKeepAlive(versionMajor, versionMinor int, connectionHeader string) bool {
	tokens := strings.Split(connectionHeader, ",")
	has := func(want string) bool {
		for _, t := range tokens {
			if strings.EqualFold(strings.TrimSpace(t), want) {
				return true
			}
		}
		return false
	}
	if versionMajor > 1 || (versionMajor == 1 && versionMinor >= 1) {
		return !has("close")
	}
	return has("keep-alive")
}
