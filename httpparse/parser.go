package httpparse

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yourusername/relay/httpmsg"
)

type state int

const (
	stateFirstLine state = iota
	stateHeaders
	stateBodyLength
	stateBodyChunked
	stateBodyUntilEOF
	stateBodyNone
	stateDone
)

type chunkState int

const (
	chunkSize chunkState = iota
	chunkData
	chunkDataCRLF
	chunkTrailers
)

// Parser is a resumable HTTP/1.1 message parser. Feed bytes to it as they
// arrive; it accepts any fragmentation of the same logical input and
// drives through the same sequence of states regardless of how the
// caller chose to split the bytes across calls.
type Parser struct {
	kind  Kind
	state state

	buf []byte // bytes fed but not yet consumed
	pos int     // read cursor into buf

	headersSize int

	req  *httpmsg.Request
	resp *httpmsg.Response
	msg  *httpmsg.Message // always points at req.Message or resp.Message

	haveContentLength    bool
	haveTransferEncoding bool
	contentLength        int64
	bodyRemaining        int64

	chunk       chunkState
	chunkRemain int64
	curChunk    []byte

	leftover []byte

	eof bool
}

// NewParser constructs a Parser for the given message direction.
func NewParser(kind Kind) *Parser {
	p := &Parser{}
	p.Reset(kind)
	return p
}

// Reset prepares the Parser to parse a new message, discarding any
// in-progress state (but not the underlying buffer's capacity).
func (p *Parser) Reset(kind Kind) {
	p.kind = kind
	p.state = stateFirstLine
	p.buf = p.buf[:0]
	p.pos = 0
	p.headersSize = 0
	p.haveContentLength = false
	p.haveTransferEncoding = false
	p.contentLength = 0
	p.bodyRemaining = 0
	p.chunk = chunkSize
	p.chunkRemain = 0
	p.leftover = nil
	p.eof = false

	switch kind {
	case KindRequest:
		p.req = &httpmsg.Request{}
		p.req.Reset()
		p.msg = &p.req.Message
		p.resp = nil
	case KindResponse:
		p.resp = &httpmsg.Response{}
		p.resp.Reset()
		p.msg = &p.resp.Message
		p.req = nil
	}
}

// Request returns the parsed request. Only meaningful for Kind ==
// KindRequest after Feed returns ResultDone.
func (p *Parser) Request() *httpmsg.Request { return p.req }

// Response returns the parsed response. Only meaningful for Kind ==
// KindResponse after Feed returns ResultDone.
func (p *Parser) Response() *httpmsg.Response { return p.resp }

// BytesAvailable reports how many bytes beyond the end of the completed
// message were fed but not consumed — the start of a pipelined next
// request.
func (p *Parser) BytesAvailable() int { return len(p.leftover) }

// TakeLeftover drains and returns the pipelined leftover bytes, clearing
// it from the Parser.
func (p *Parser) TakeLeftover() []byte {
	lo := p.leftover
	p.leftover = nil
	return lo
}

// Feed advances the state machine with additional input bytes. It may be
// called any number of times with arbitrarily small or large chunks; the
// result is identical regardless of how the caller partitions the same
// logical byte stream.
func (p *Parser) Feed(chunk []byte) (ParseResult, error) {
	if len(chunk) > 0 {
		p.buf = append(p.buf, chunk...)
	}
	return p.run()
}

// FeedEOF tells the Parser the underlying connection reached EOF with no
// more bytes coming. In stateBodyUntilEOF this is the successful
// terminator (IsValid = true); in any state expecting a known-length
// continuation it is an error.
func (p *Parser) FeedEOF() (ParseResult, error) {
	p.eof = true
	return p.run()
}

// run drives the state machine as far as the currently buffered bytes
// (plus eof) allow, then compacts the buffer and returns.
func (p *Parser) run() (ParseResult, error) {
	for {
		switch p.state {
		case stateFirstLine:
			line, ok := p.takeLine(MaxRequestLineSize, ErrRequestLineTooLarge)
			if !ok {
				if p.state == stateDone {
					return ResultError, ErrRequestLineTooLarge
				}
				return p.pending()
			}
			if err := p.parseFirstLine(line); err != nil {
				p.state = stateDone
				return ResultError, err
			}
			p.state = stateHeaders

		case stateHeaders:
			line, ok := p.takeLine(MaxHeaderValueSize+MaxHeaderNameSize, ErrHeaderTooLarge)
			if !ok {
				if p.state == stateDone {
					return ResultError, ErrHeaderTooLarge
				}
				return p.pending()
			}
			p.headersSize += len(line) + 2
			if p.headersSize > MaxHeadersSize {
				p.state = stateDone
				return ResultError, ErrHeadersTooLarge
			}
			if len(line) == 0 {
				if err := p.finishHeaders(); err != nil {
					p.state = stateDone
					return ResultError, err
				}
				continue
			}
			if err := p.parseHeaderLine(line); err != nil {
				p.state = stateDone
				return ResultError, err
			}
			if p.msg.Header.Len() > MaxHeaders {
				p.state = stateDone
				return ResultError, ErrTooManyHeaders
			}

		case stateBodyLength:
			if p.bodyRemaining == 0 {
				p.msg.IsValid = true
				p.state = stateDone
				continue
			}
			avail := int64(len(p.buf) - p.pos)
			if avail == 0 {
				if p.eof {
					p.msg.IsValid = false
					p.state = stateDone
					return ResultError, ErrUnexpectedEOF
				}
				return p.pending()
			}
			take := avail
			if take > p.bodyRemaining {
				take = p.bodyRemaining
			}
			p.msg.Body = append(p.msg.Body, p.buf[p.pos:p.pos+int(take)]...)
			p.pos += int(take)
			p.bodyRemaining -= take
			if p.bodyRemaining == 0 {
				p.msg.IsValid = true
				p.state = stateDone
			}

		case stateBodyUntilEOF:
			avail := len(p.buf) - p.pos
			if avail > 0 {
				p.msg.Body = append(p.msg.Body, p.buf[p.pos:]...)
				p.pos = len(p.buf)
			}
			if p.eof {
				p.msg.IsValid = true
				p.state = stateDone
				continue
			}
			return p.pending()

		case stateBodyChunked:
			done, ok, err := p.stepChunked()
			if err != nil {
				p.state = stateDone
				return ResultError, err
			}
			if !ok {
				if p.state == stateDone {
					return ResultError, ErrChunkedEncoding
				}
				return p.pending()
			}
			if done {
				p.msg.ConcatenateChunks()
				p.msg.IsValid = true
				p.state = stateDone
			}

		case stateBodyNone:
			p.msg.IsValid = true
			p.state = stateDone

		case stateDone:
			p.leftover = append([]byte(nil), p.buf[p.pos:]...)
			p.buf = p.buf[:0]
			p.pos = 0
			return ResultDone, nil
		}
	}
}

// pending compacts the consumed prefix out of buf and reports NeedMore.
func (p *Parser) pending() (ParseResult, error) {
	if p.pos > 0 {
		p.buf = append(p.buf[:0], p.buf[p.pos:]...)
		p.pos = 0
	}
	return ResultNeedMore, nil
}

// takeLine looks for a CRLF-terminated line starting at pos. Returns
// ok=false if no full line is buffered yet (caller must wait for more
// input); the line slice excludes the trailing CRLF. A line longer than
// maxLen also yields ok=false, but moves the parser to stateDone, which
// run reports as the matching size error.
func (p *Parser) takeLine(maxLen int, tooLarge error) ([]byte, bool) {
	idx := bytes.Index(p.buf[p.pos:], []byte("\r\n"))
	if idx < 0 {
		if len(p.buf)-p.pos > maxLen {
			p.state = stateDone
		}
		return nil, false
	}
	if idx > maxLen {
		p.state = stateDone
		return nil, false
	}
	line := p.buf[p.pos : p.pos+idx]
	p.pos += idx + 2
	return line, true
}

func (p *Parser) parseFirstLine(line []byte) error {
	if len(line) == 0 {
		return ErrInvalidFirstLine
	}
	parts := strings.SplitN(string(line), " ", 3)
	if len(parts) != 3 {
		return ErrInvalidFirstLine
	}
	versionField := parts[2]
	if p.kind == KindResponse {
		versionField = parts[0]
	}
	major, minor, err := parseVersion(versionField)
	if err != nil {
		return err
	}
	p.msg.VersionMajor = major
	p.msg.VersionMinor = minor
	p.msg.ChunksSupported = major > 1 || (major == 1 && minor >= 1)

	switch p.kind {
	case KindRequest:
		if !isValidMethod(parts[0]) {
			return ErrInvalidMethod
		}
		if len(parts[1]) == 0 || parts[1][0] != '/' {
			if parts[1] != "*" {
				return ErrInvalidPath
			}
		}
		if len(parts[1]) > MaxURILength {
			return ErrURITooLong
		}
		p.req.Method = parts[0]
		p.req.SetResource(parts[1])
	case KindResponse:
		code, err := strconv.Atoi(parts[1])
		if err != nil || code < 100 || code > 599 {
			return ErrInvalidFirstLine
		}
		p.resp.StatusCode = code
	}
	return nil
}

func parseVersion(proto string) (major, minor int, err error) {
	switch proto {
	case "HTTP/1.1":
		return 1, 1, nil
	case "HTTP/1.0":
		return 1, 0, nil
	}
	return 0, 0, ErrInvalidProtocol
}

var validMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "DELETE": true,
	"CONNECT": true, "OPTIONS": true, "TRACE": true, "PATCH": true,
}

func isValidMethod(m string) bool { return validMethods[m] }

func (p *Parser) parseHeaderLine(line []byte) error {
	idx := bytes.IndexByte(line, ':')
	if idx <= 0 {
		return ErrInvalidHeader
	}
	name := strings.TrimSpace(string(line[:idx]))
	value := strings.TrimSpace(string(line[idx+1:]))
	if name == "" {
		return ErrInvalidHeader
	}
	if len(name) > MaxHeaderNameSize || len(value) > MaxHeaderValueSize {
		return ErrHeaderTooLarge
	}

	switch {
	case strings.EqualFold(name, "Content-Length"):
		if p.haveTransferEncoding {
			return ErrContentLengthWithTransferEncoding
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return ErrInvalidContentLength
		}
		if p.haveContentLength && n != p.contentLength {
			return ErrDuplicateContentLength
		}
		p.haveContentLength = true
		p.contentLength = n
	case strings.EqualFold(name, "Transfer-Encoding"):
		if p.haveContentLength {
			return ErrContentLengthWithTransferEncoding
		}
		p.haveTransferEncoding = strings.Contains(strings.ToLower(value), "chunked")
	}

	p.msg.Header.Add(name, value)
	return nil
}

// finishHeaders selects the body-reading state per spec §4.4: a response
// whose status or request method implies no body comes first; otherwise
// chunked takes priority over Content-Length, which takes priority over an
// until-EOF response body, which takes priority over no body at all.
func (p *Parser) finishHeaders() error {
	switch {
	case p.kind == KindResponse && hasExplicitNoBody(p.resp):
		p.state = stateBodyNone
	case p.haveTransferEncoding:
		p.state = stateBodyChunked
		p.chunk = chunkSize
	case p.haveContentLength:
		p.bodyRemaining = p.contentLength
		p.state = stateBodyLength
	case p.kind == KindResponse:
		p.state = stateBodyUntilEOF
	default:
		p.state = stateBodyNone
	}
	return nil
}

func hasExplicitNoBody(resp *httpmsg.Response) bool {
	return httpmsg.ImpliesZeroBody(resp.RequestMethod, resp.StatusCode)
}
