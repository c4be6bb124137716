// Package watch lets the driver recompile a translation unit automatically
// when its root file or any of its include directories change on disk. It
// is the cmd/novac driver's only use of an OS-level file-event source; the
// compiler core itself never watches anything.
package watch

import "time"

// Op indicates which change happened to a watched path.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event describes a single filesystem change.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher is a platform-independent file-watching source. FSNotifyWatcher is
// the only implementation; it is kept behind this interface so the driver
// does not depend on fsnotify directly.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}
