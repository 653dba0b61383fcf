// Package socket applies TCP tuning to the listener and accepted
// connections a server opens. Options are best-effort: a failure to set a
// non-critical option is swallowed, since the socket still works for HTTP
// without it.
package socket

import (
	"net"
)

// Config is the set of TCP options applied to a connection or listener.
// The zero value uses system defaults everywhere.
type Config struct {
	// NoDelay disables Nagle's algorithm (TCP_NODELAY). Recommended for
	// HTTP/1.1 request/response traffic.
	NoDelay bool

	// RecvBuffer and SendBuffer set SO_RCVBUF/SO_SNDBUF in bytes. Zero
	// leaves the system default in place.
	RecvBuffer int
	SendBuffer int

	// QuickAck requests TCP_QUICKACK (Linux only).
	QuickAck bool

	// DeferAccept requests TCP_DEFER_ACCEPT on the listening socket so the
	// accept(2) wakeup happens only once request bytes have arrived
	// (Linux only).
	DeferAccept bool

	// FastOpen enables TCP Fast Open on the listener (Linux only).
	FastOpen bool

	// KeepAlive enables SO_KEEPALIVE.
	KeepAlive bool
}

// DefaultConfig is tuned for typical request/response HTTP workloads.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:     true,
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		QuickAck:    true,
		DeferAccept: true,
		FastOpen:    true,
		KeepAlive:   true,
	}
}

// Apply tunes an accepted connection. Non-TCP connections (e.g. those from
// net.Pipe, used in tests) are left untouched.
func Apply(conn net.Conn, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return err
	}

	var lastErr error
	ctrlErr := rawConn.Control(func(fd uintptr) {
		lastErr = applyConnOptions(int(fd), cfg)
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return lastErr
}

// ApplyListener tunes a listening socket. TCP_DEFER_ACCEPT and TCP_FASTOPEN
// must be set here, before Accept is ever called.
func ApplyListener(listener net.Listener, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tcpListener, ok := listener.(*net.TCPListener)
	if !ok {
		return nil
	}

	file, err := tcpListener.File()
	if err != nil {
		return err
	}
	defer file.Close()

	return applyListenerOptions(int(file.Fd()), cfg)
}
