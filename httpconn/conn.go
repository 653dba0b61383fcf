// Package httpconn wraps a net.Conn with the buffered I/O, pipelining
// bookmark, and idempotent finish callback the reader/writer/server pair
// needs, independent of whatever HTTP semantics ride on top of it.
package httpconn

import (
	"bufio"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Lifecycle describes what should happen to the connection once the
// current request/response cycle finishes. It replaces the teacher's
// ConnectionState, which conflated "currently serving a request" with
// "what happens next" — this framework needs both, and the server keeps
// "currently serving" separately via its own per-connection goroutine
// bookkeeping.
type Lifecycle int

const (
	// LifecycleClose means the connection must be closed once the
	// in-flight response finishes sending.
	LifecycleClose Lifecycle = iota
	// LifecycleKeepAlive means the connection should go back to waiting
	// for a fresh read.
	LifecycleKeepAlive
	// LifecyclePipelined means bytes for a subsequent request already
	// arrived and are waiting in the saved read-position buffer.
	LifecyclePipelined
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleClose:
		return "close"
	case LifecycleKeepAlive:
		return "keep-alive"
	case LifecyclePipelined:
		return "pipelined"
	default:
		return "unknown"
	}
}

var bufioReaderPool sync.Pool
var bufioWriterPool sync.Pool

const defaultBufferSize = 4096

func getBufioReader(r net.Conn) *bufio.Reader {
	if v := bufioReaderPool.Get(); v != nil {
		br := v.(*bufio.Reader)
		br.Reset(r)
		return br
	}
	return bufio.NewReaderSize(r, defaultBufferSize)
}

func putBufioReader(br *bufio.Reader) {
	br.Reset(nil)
	bufioReaderPool.Put(br)
}

func getBufioWriter(w net.Conn) *bufio.Writer {
	if v := bufioWriterPool.Get(); v != nil {
		bw := v.(*bufio.Writer)
		bw.Reset(w)
		return bw
	}
	return bufio.NewWriterSize(w, defaultBufferSize)
}

func putBufioWriter(bw *bufio.Writer) {
	bw.Reset(nil)
	bufioWriterPool.Put(bw)
}

// Conn is a single accepted connection (plain TCP or already
// TLS-handshaken) plus the bookkeeping the server's reader/writer/
// dispatcher loop needs across requests.
type Conn struct {
	net.Conn

	Reader *bufio.Reader
	Writer *bufio.Writer

	// Scratch is a per-connection scratch buffer drawn from
	// bytebufferpool in New and returned to it in Close. The reader and
	// writer packages of this module do not use it.
	Scratch *bytebufferpool.ByteBuffer

	lifecycle atomic.Int32
	requests  atomic.Int32
	lastUse   atomic.Int64

	readPos []byte // saved pipelined leftover bytes, if any

	finished atomic.Bool
	finishFn func()

	closed atomic.Bool
}

// New wraps conn for HTTP use.
func New(conn net.Conn) *Conn {
	c := &Conn{
		Conn:    conn,
		Reader:  getBufioReader(conn),
		Writer:  getBufioWriter(conn),
		Scratch: bytebufferpool.Get(),
	}
	c.lifecycle.Store(int32(LifecycleKeepAlive))
	c.lastUse.Store(time.Now().UnixNano())
	return c
}

// Lifecycle returns what should happen to the connection next.
func (c *Conn) Lifecycle() Lifecycle {
	return Lifecycle(c.lifecycle.Load())
}

// SetLifecycle records what should happen to the connection next.
func (c *Conn) SetLifecycle(l Lifecycle) {
	c.lifecycle.Store(int32(l))
	c.lastUse.Store(time.Now().UnixNano())
}

// IncRequests bumps the per-connection request counter and returns the
// new count.
func (c *Conn) IncRequests() int {
	return int(c.requests.Add(1))
}

// RequestCount returns the number of requests served on this connection.
func (c *Conn) RequestCount() int {
	return int(c.requests.Load())
}

// IdleSince returns how long it has been since the connection last made
// progress.
func (c *Conn) IdleSince() time.Duration {
	return time.Since(time.Unix(0, c.lastUse.Load()))
}

// SaveReadPos stashes bytes read past the end of the current message —
// the start of a pipelined next request — for the next Read cycle to
// consume before touching the socket again.
func (c *Conn) SaveReadPos(b []byte) {
	if len(b) == 0 {
		c.readPos = nil
		return
	}
	c.readPos = append([]byte(nil), b...)
}

// LoadReadPos returns and clears any saved pipelined bytes.
func (c *Conn) LoadReadPos() []byte {
	b := c.readPos
	c.readPos = nil
	return b
}

// SetFinishHandler registers the callback Finish invokes once per
// exchange — typically the server's own post-exchange bookkeeping.
func (c *Conn) SetFinishHandler(fn func()) {
	c.finishFn = fn
}

// Finish runs the registered finish callback exactly once per exchange,
// no matter how many call sites (writer success path, writer error path,
// reader error path) race to call it — this is the fix for the
// documented defect where the original called its equivalent hook twice
// on some error paths. The server calls ResetFinish before reading the
// next request so the guard does not carry over to the next exchange on
// the same keep-alive connection.
func (c *Conn) Finish() {
	if !c.finished.CompareAndSwap(false, true) {
		return
	}
	if c.finishFn != nil {
		c.finishFn()
	}
}

// ResetFinish re-arms Finish for the next request/response exchange on
// this connection.
func (c *Conn) ResetFinish() {
	c.finished.Store(false)
}

// Cancel forces any in-flight Read/Write on the underlying socket to
// return an error immediately, the Go-native equivalent of an ASIO
// cancel() call on a socket.
func (c *Conn) Cancel() {
	_ = c.Conn.SetDeadline(time.Now())
}

// Close releases pooled buffers and closes the underlying socket. Safe to
// call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.Reader != nil {
		putBufioReader(c.Reader)
		c.Reader = nil
	}
	if c.Writer != nil {
		putBufioWriter(c.Writer)
		c.Writer = nil
	}
	if c.Scratch != nil {
		bytebufferpool.Put(c.Scratch)
		c.Scratch = nil
	}
	return c.Conn.Close()
}
