//go:build windows
// +build windows

package cli

import "golang.org/x/sys/windows"

// IsTerminal reports whether fd refers to an interactive terminal by
// checking that its console mode can be queried.
func IsTerminal(fd uintptr) bool {
	var mode uint32
	err := windows.GetConsoleMode(windows.Handle(fd), &mode)
	return err == nil
}
