// Package httpread glues a Conn's byte stream to a Parser instance: it
// owns the read loop, the idle-read timeout, and the pipelining handover
// decision the parser and connection need from each other.
package httpread

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/yourusername/relay/httpconn"
	"github.com/yourusername/relay/httpmsg"
	"github.com/yourusername/relay/httpparse"
)

// Config controls reader behavior.
type Config struct {
	// IdleTimeout bounds how long Read waits for the next byte before
	// giving up and cancelling the connection. Zero disables the
	// timeout.
	IdleTimeout time.Duration

	// ReadBufferSize is the chunk size used for each socket read.
	ReadBufferSize int
}

// DefaultConfig matches the teacher's 60s keep-alive default, scaled down
// to a more conservative idle-read timeout since this Config governs
// per-read idleness rather than whole-connection keep-alive.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:    10 * time.Second,
		ReadBufferSize: 4096,
	}
}

// ErrIdleTimeout is returned when no bytes arrive within the configured
// idle timeout.
var ErrIdleTimeout = errors.New("httpread: idle read timeout")

// Result carries the parsed request plus the lifecycle decision for the
// connection once parsing completes.
type Result struct {
	Request   *httpmsg.Request
	Lifecycle httpconn.Lifecycle
}

// OnHeadersParsed, if set, is invoked once per Read, right after the first
// Feed that has parsed the request line. The header block, and even the
// body, may or may not be complete at that point; the hook does not wait
// for the blank line that ends the headers.
type OnHeadersParsed func(*httpmsg.Request)

// Read drives conn's byte stream through a fresh Parser until a complete
// request is available, honoring any bytes already saved from a prior
// pipelined read.
func Read(ctx context.Context, conn *httpconn.Conn, cfg Config, onHeaders OnHeadersParsed) (*Result, error) {
	p := httpparse.NewParser(httpparse.KindRequest)

	if leftover := conn.LoadReadPos(); len(leftover) > 0 {
		res, err := p.Feed(leftover)
		if done, result, retErr := checkResult(conn, p, res, err); done {
			return result, retErr
		}
	}

	buf := make([]byte, cfg.ReadBufferSize)
	var timer *time.Timer
	if cfg.IdleTimeout > 0 {
		timer = time.NewTimer(cfg.IdleTimeout)
		defer timer.Stop()
	}

	headersNotified := false

	for {
		if cfg.IdleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(cfg.IdleTimeout)); err != nil {
				return nil, err
			}
		}

		n, err := conn.Reader.Read(buf)
		if n > 0 {
			res, feedErr := p.Feed(buf[:n])
			if onHeaders != nil && !headersNotified && headersAvailable(p) {
				headersNotified = true
				if p.Request() != nil {
					onHeaders(p.Request())
				}
			}
			if done, result, retErr := checkResult(conn, p, res, feedErr); done {
				return result, retErr
			}
		}
		if err != nil {
			if isTimeout(err) {
				conn.Cancel()
				return nil, ErrIdleTimeout
			}
			if errors.Is(err, io.EOF) {
				res, feedErr := p.FeedEOF()
				if done, result, retErr := checkResult(conn, p, res, feedErr); done {
					return result, retErr
				}
			}
			return nil, err
		}
	}
}

// headersAvailable is a best-effort check used only to fire the
// onHeaders hook; it reports whether the request line has been parsed
// (Method set), not whether the header block is complete.
func headersAvailable(p *httpparse.Parser) bool {
	req := p.Request()
	return req != nil && req.Method != ""
}

func checkResult(conn *httpconn.Conn, p *httpparse.Parser, res httpparse.ParseResult, err error) (bool, *Result, error) {
	switch res {
	case httpparse.ResultError:
		return true, nil, err
	case httpparse.ResultDone:
		lifecycle := decideLifecycle(conn, p)
		return true, &Result{Request: p.Request(), Lifecycle: lifecycle}, nil
	default:
		return false, nil, nil
	}
}

// decideLifecycle implements the handover rule: pipelined bytes win over
// keep-alive, which wins over close, exactly as spec §4.6 describes.
func decideLifecycle(conn *httpconn.Conn, p *httpparse.Parser) httpconn.Lifecycle {
	if p.BytesAvailable() > 0 {
		conn.SaveReadPos(p.TakeLeftover())
		return httpconn.LifecyclePipelined
	}
	req := p.Request()
	if req != nil && !req.ShouldCloseAfterResponse() {
		return httpconn.LifecycleKeepAlive
	}
	return httpconn.LifecycleClose
}

type timeoutError interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	te, ok := err.(timeoutError)
	return ok && te.Timeout()
}
