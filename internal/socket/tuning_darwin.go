//go:build darwin

package socket

import "golang.org/x/sys/unix"

const (
	tcpKeepAlive = 0x10
	tcpFastOpen  = 0x105
)

// applyConnOptions applies per-connection TCP options on Darwin.
func applyConnOptions(fd int, cfg *Config) error {
	var lastErr error

	if cfg.NoDelay {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			lastErr = err
		}
	}
	if cfg.RecvBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, cfg.SendBuffer)
	}
	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, tcpKeepAlive, 60)
	}
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)

	return lastErr
}

// applyListenerOptions applies listener-only TCP options on Darwin. Darwin
// has no TCP_DEFER_ACCEPT equivalent, so DeferAccept is ignored here.
func applyListenerOptions(fd int, cfg *Config) error {
	if cfg.FastOpen {
		return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, tcpFastOpen, 256)
	}
	return nil
}

// SetQuickAck is a no-op on Darwin; it has no TCP_QUICKACK equivalent.
func SetQuickAck(fd int) error {
	return nil
}
