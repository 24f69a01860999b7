package aio

import "sync/atomic"

// unlinked is the sentinel "not linked into any list" value for a link's
// next cell. It's a real, distinguished *link so identity comparison (not a
// magic integer) tells linked from unlinked — the Go analogue of the
// teacher corpus's general preference for typed sentinels over raw magic
// numbers (ported from the original atomic_link.rs's NonNull sentinel).
var unlinked = &link{}

// link is an intrusive doubly-linked-list node embedded inside Request. Its
// next/prev cells are individually atomic so the completion pump can
// inspect a request's link state without taking the pool mutex; all
// structural mutation (actually relinking next/prev together) still
// happens under that mutex (see pool.go), the same division of labor the
// spec calls for: atomics make inspection safe, they don't make the list
// itself lock-free. owner is set once, at Request construction, and never
// changes again, so reading it needs no synchronization of its own.
type link struct {
	next  atomic.Pointer[link]
	prev  atomic.Pointer[link]
	owner *Request
}

// reset clears a link back to the unlinked state. Safe to call on a fresh
// zero-value link or after the surrounding list has been bulk-cleared
// without per-node unlinking.
func (l *link) reset() {
	l.next.Store(unlinked)
	l.prev.Store(unlinked)
}

// isLinked reports whether l is currently part of a list.
func (l *link) isLinked() bool {
	return l.next.Load() != unlinked
}
