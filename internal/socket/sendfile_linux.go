//go:build linux

package socket

import (
	"io"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// SendFile transfers count bytes of file starting at offset directly to
// conn via the sendfile(2) syscall, avoiding a userspace copy. Falls back
// to io.Copy if conn isn't a TCP connection or the syscall fails outright.
func SendFile(conn net.Conn, file *os.File, offset int64, count int64) (int64, error) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return io.Copy(conn, io.NewSectionReader(file, offset, count))
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		return io.Copy(conn, io.NewSectionReader(file, offset, count))
	}

	srcFd := int(file.Fd())
	var written int64
	var sendErr error

	ctrlErr := rawConn.Write(func(dstFd uintptr) bool {
		curOffset := offset
		remaining := count
		for remaining > 0 {
			chunk := remaining
			if chunk > 1<<30 {
				chunk = 1 << 30
			}
			n, err := unix.Sendfile(int(dstFd), srcFd, &curOffset, int(chunk))
			if err != nil {
				if err == unix.EAGAIN || err == unix.EINTR {
					continue
				}
				sendErr = err
				return false
			}
			if n == 0 {
				break
			}
			written += int64(n)
			remaining -= int64(n)
		}
		return true
	})

	if ctrlErr != nil || sendErr != nil {
		if written > 0 {
			remaining := count - written
			if remaining <= 0 {
				return written, nil
			}
			n, err := io.Copy(conn, io.NewSectionReader(file, offset+written, remaining))
			return written + n, err
		}
		return io.Copy(conn, io.NewSectionReader(file, offset, count))
	}
	return written, nil
}

// SendFileAll sends the entire file.
func SendFileAll(conn net.Conn, file *os.File) (int64, error) {
	stat, err := file.Stat()
	if err != nil {
		return 0, err
	}
	return SendFile(conn, file, 0, stat.Size())
}

// CanUseSendFile reports whether conn supports the sendfile fast path.
func CanUseSendFile(conn net.Conn) bool {
	_, ok := conn.(*net.TCPConn)
	return ok
}
