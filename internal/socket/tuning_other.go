//go:build !linux && !darwin

package socket

// applyConnOptions is a no-op on platforms without the tuning syscalls
// above; the connection still works, just untuned.
func applyConnOptions(fd int, cfg *Config) error {
	return nil
}

func applyListenerOptions(fd int, cfg *Config) error {
	return nil
}

// SetQuickAck is a no-op on platforms without TCP_QUICKACK.
func SetQuickAck(fd int) error {
	return nil
}
