// Package httpparse implements a resumable HTTP/1.1 message parser: feed
// it bytes as they arrive off the wire, in whatever chunks the socket
// happens to deliver them, and it drives the same state machine to the
// same result regardless of how the input was fragmented.
package httpparse

// Size limits, matching the teacher's fixed DoS-protection budgets.
const (
	MaxHeaders         = 64
	MaxHeaderNameSize  = 256
	MaxHeaderValueSize = 8192
	MaxRequestLineSize = 8192
	MaxURILength       = 8192
	MaxHeadersSize     = 1 << 20
)

// Kind selects whether a Parser reads a request-line or a status-line as
// its first line.
type Kind int

const (
	KindRequest Kind = iota
	KindResponse
)

// ParseResult reports the outcome of one Feed call.
type ParseResult int

const (
	// ResultNeedMore means Feed consumed everything available but the
	// message is not yet complete; call Feed again with more bytes.
	ResultNeedMore ParseResult = iota
	// ResultDone means the message finished parsing during this Feed
	// call. BytesAvailable reports any leftover unconsumed bytes
	// (pipelining).
	ResultDone
	// ResultError means the input violates the protocol; the error is
	// returned alongside this result and the Parser must not be reused
	// without a Reset.
	ResultError
)
