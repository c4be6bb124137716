//go:build darwin || freebsd || netbsd || openbsd
// +build darwin freebsd netbsd openbsd

package cli

import "golang.org/x/sys/unix"

// IsTerminal reports whether fd refers to an interactive terminal by
// probing it with the TIOCGETA ioctl; the call only succeeds against a tty.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TIOCGETA)
	return err == nil
}
