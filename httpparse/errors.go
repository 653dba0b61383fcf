package httpparse

import "errors"

// Parser errors.
var (
	ErrInvalidFirstLine    = errors.New("httpparse: invalid request/status line")
	ErrInvalidMethod       = errors.New("httpparse: invalid HTTP method")
	ErrInvalidPath         = errors.New("httpparse: invalid request path")
	ErrInvalidProtocol     = errors.New("httpparse: invalid or unsupported protocol version")
	ErrInvalidHeader       = errors.New("httpparse: invalid HTTP header")
	ErrHeaderTooLarge      = errors.New("httpparse: header name or value too large")
	ErrTooManyHeaders      = errors.New("httpparse: too many headers")
	ErrRequestLineTooLarge = errors.New("httpparse: request line too large")
	ErrHeadersTooLarge     = errors.New("httpparse: headers too large")
	ErrURITooLong          = errors.New("httpparse: URI too long")

	ErrChunkedEncoding     = errors.New("httpparse: chunked encoding error")
	ErrInvalidContentLength = errors.New("httpparse: invalid Content-Length")

	// ErrContentLengthWithTransferEncoding and ErrDuplicateContentLength
	// guard against the CL.TE / TE.CL request-smuggling techniques:
	// RFC 7230 §3.3.3 requires rejecting a message that specifies both
	// framing headers, or repeats Content-Length with conflicting values.
	ErrContentLengthWithTransferEncoding = errors.New("httpparse: request has both Content-Length and Transfer-Encoding")
	ErrDuplicateContentLength            = errors.New("httpparse: duplicate Content-Length headers with different values")

	ErrUnexpectedEOF = errors.New("httpparse: unexpected EOF")
)
