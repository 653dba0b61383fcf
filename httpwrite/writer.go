// Package httpwrite serializes an httpmsg.Response onto an httpconn.Conn,
// either as a single buffered write or as a chunked-transfer stream.
package httpwrite

import (
	"bufio"
	"context"
	"strconv"

	"github.com/yourusername/relay/httpconn"
	"github.com/yourusername/relay/httpmsg"
)

// Writer drives one response's serialization onto conn. It holds no
// framing text on the Response itself — chunk size lines and CRLFs are
// formatted on the fly straight onto the connection's buffered writer,
// matching the Design Notes' "no framing text cached on the message
// object" rule. Only the pending chunk payloads wait on the Response's
// chunk buffer until Flush.
type Writer struct {
	resp *httpmsg.Response
	conn *httpconn.Conn

	chunked   bool
	keepAlive bool

	wroteAnything   bool
	wroteHeaderLine bool
}

// New constructs a Writer for one response/connection pair. keepAlive
// reflects the decision already made by the reader/dispatcher about
// whether this is the last response on the connection.
func New(resp *httpmsg.Response, conn *httpconn.Conn, keepAlive bool) *Writer {
	return &Writer{resp: resp, conn: conn, keepAlive: keepAlive}
}

// Response returns the underlying response, letting a caller (e.g. an
// authenticator writing a 401) set the status code and headers before
// calling Send.
func (w *Writer) Response() *httpmsg.Response {
	return w.resp
}

// UseChunked switches the writer into streaming chunked-transfer mode.
// Must be called before the first Write/Send.
func (w *Writer) UseChunked() {
	w.chunked = true
}

func (w *Writer) applyDefaultHeaders() {
	if w.wroteAnything {
		return
	}
	w.wroteAnything = true
	h := &w.resp.Header
	if !h.Has("Content-Type") {
		h.Set("Content-Type", "text/plain; charset=utf-8")
	}
	if w.keepAlive {
		h.Set("Connection", "keep-alive")
	} else {
		h.Set("Connection", "close")
	}
	if w.chunked {
		h.Set("Transfer-Encoding", "chunked")
	} else if !h.Has("Content-Length") && !httpmsg.ImpliesZeroBody(w.resp.RequestMethod, w.resp.StatusCode) {
		h.Set("Content-Length", strconv.Itoa(len(w.resp.Body)))
	}
}

// Send writes the complete response (status line, headers, body) in a
// single scatter-gather write and finishes the connection's lifecycle
// bookkeeping. Use for non-streaming handlers.
func (w *Writer) Send(ctx context.Context) error {
	w.applyDefaultHeaders()
	bufs := w.resp.PrepareBuffersForSend(w.keepAlive, w.chunked)

	if dl, ok := ctx.Deadline(); ok {
		_ = w.conn.SetWriteDeadline(dl)
	}

	_, err := bufs.WriteTo(w.conn.Writer)
	if err == nil {
		err = w.conn.Writer.Flush()
	}
	w.finish(err)
	return err
}

// Write buffers a streaming fragment; call Flush to emit it as a chunk
// frame. Only valid after UseChunked.
func (w *Writer) Write(p []byte) (int, error) {
	w.resp.AppendChunk(p)
	return len(p), nil
}

// Flush emits every buffered-but-unsent fragment as hex-length-prefixed
// chunk frames, then writes them to the connection immediately (without
// closing the stream).
func (w *Writer) Flush(ctx context.Context) error {
	w.applyDefaultHeaders()
	if !w.wroteHeaderLine {
		if err := w.writeHeaderLine(); err != nil {
			w.finish(err)
			return err
		}
		w.wroteHeaderLine = true
	}
	for _, c := range w.resp.DrainChunks() {
		if err := writeChunkFrame(w.conn.Writer, c); err != nil {
			w.finish(err)
			return err
		}
	}
	return w.conn.Writer.Flush()
}

// writeHeaderLine emits the status line and header block once, before
// the first chunk frame.
func (w *Writer) writeHeaderLine() error {
	major, minor := w.resp.VersionMajor, w.resp.VersionMinor
	if major == 0 {
		major, minor = 1, 1
	}
	reason := w.resp.StatusMessage
	if reason == "" {
		reason = httpmsg.ReasonPhrase(w.resp.StatusCode)
	}
	if _, err := w.conn.Writer.WriteString("HTTP/" + strconv.Itoa(major) + "." +
		strconv.Itoa(minor) + " " + strconv.Itoa(w.resp.StatusCode) + " " +
		reason + "\r\n"); err != nil {
		return err
	}
	var headerErr error
	w.resp.Header.VisitAll(func(name, value string) bool {
		if _, err := w.conn.Writer.WriteString(name + ": " + value + "\r\n"); err != nil {
			headerErr = err
			return false
		}
		return true
	})
	if headerErr != nil {
		return headerErr
	}
	_, err := w.conn.Writer.WriteString("\r\n")
	return err
}

// writeChunkFrame writes one hex-length-prefixed chunk frame to bw.
func writeChunkFrame(bw *bufio.Writer, data []byte) error {
	if _, err := bw.WriteString(strconv.FormatInt(int64(len(data)), 16) + "\r\n"); err != nil {
		return err
	}
	if _, err := bw.Write(data); err != nil {
		return err
	}
	_, err := bw.WriteString("\r\n")
	return err
}

// SendFinalChunk emits the zero-length terminator chunk and flushes,
// completing a chunked response.
func (w *Writer) SendFinalChunk(ctx context.Context) error {
	if err := w.Flush(ctx); err != nil {
		return err
	}
	_, err := w.conn.Writer.WriteString("0\r\n\r\n")
	if err == nil {
		err = w.conn.Writer.Flush()
	}
	w.finish(err)
	return err
}

// finish forces the connection closed on any write error, then signals
// completion exactly once via conn.Finish — matching the fixed
// double-finish defect: both the success and failure paths route through
// this single call site.
func (w *Writer) finish(err error) {
	if err != nil {
		w.conn.SetLifecycle(httpconn.LifecycleClose)
	}
	w.conn.Finish()
}
