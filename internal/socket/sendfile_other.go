//go:build !linux

package socket

import (
	"io"
	"net"
	"os"
)

// SendFile falls back to io.Copy on platforms without sendfile(2) support,
// keeping the same signature as the Linux fast path.
func SendFile(conn net.Conn, file *os.File, offset int64, count int64) (int64, error) {
	return io.Copy(conn, io.NewSectionReader(file, offset, count))
}

// SendFileAll sends the entire file.
func SendFileAll(conn net.Conn, file *os.File) (int64, error) {
	stat, err := file.Stat()
	if err != nil {
		return 0, err
	}
	return SendFile(conn, file, 0, stat.Size())
}

// CanUseSendFile always reports false; there is no fast path here.
func CanUseSendFile(conn net.Conn) bool {
	return false
}
