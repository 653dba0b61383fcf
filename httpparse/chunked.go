package httpparse

import (
	"bytes"
	"strconv"
)

// stepChunked advances one step of RFC 7230 §4.1 chunked-body decoding.
// It returns ok=false when more input is needed before the current
// sub-state can complete, and done=true once the terminal zero-length
// chunk and its trailer section have both been consumed.
func (p *Parser) stepChunked() (done bool, ok bool, err error) {
	switch p.chunk {
	case chunkSize:
		line, got := p.takeLine(64, ErrChunkedEncoding)
		if !got {
			return false, false, nil
		}
		// Strip chunk-extensions (";name=value") — never interpreted,
		// only discarded, so a crafted extension cannot smuggle a
		// second size past a downstream parser.
		if i := bytes.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = bytes.TrimSpace(line)
		size, err := strconv.ParseInt(string(line), 16, 64)
		if err != nil || size < 0 {
			return false, false, ErrChunkedEncoding
		}
		if size == 0 {
			p.chunk = chunkTrailers
			return false, true, nil
		}
		p.chunkRemain = size
		p.curChunk = p.curChunk[:0]
		p.chunk = chunkData
		return false, true, nil

	case chunkData:
		avail := int64(len(p.buf) - p.pos)
		if avail == 0 {
			return false, false, nil
		}
		take := avail
		if take > p.chunkRemain {
			take = p.chunkRemain
		}
		p.curChunk = append(p.curChunk, p.buf[p.pos:p.pos+int(take)]...)
		p.pos += int(take)
		p.chunkRemain -= take
		if p.chunkRemain == 0 {
			p.msg.AppendChunk(p.curChunk)
			p.chunk = chunkDataCRLF
		}
		return false, true, nil

	case chunkDataCRLF:
		line, got := p.takeLine(2, ErrChunkedEncoding)
		if !got {
			return false, false, nil
		}
		if len(line) != 0 {
			return false, false, ErrChunkedEncoding
		}
		p.chunk = chunkSize
		return false, true, nil

	case chunkTrailers:
		line, got := p.takeLine(MaxHeaderValueSize, ErrChunkedEncoding)
		if !got {
			return false, false, nil
		}
		if len(line) == 0 {
			return true, true, nil
		}
		// Trailer headers are parsed the same as regular headers but
		// never drive framing decisions (Content-Length/
		// Transfer-Encoding in a trailer are meaningless here).
		if err := p.parseHeaderLine(line); err != nil {
			return false, false, err
		}
		return false, true, nil
	}
	return false, false, ErrChunkedEncoding
}
