package aio

import (
	"log/slog"
	"runtime/debug"
)

// spawn starts f on its own goroutine with panic recovery, logging via
// logger instead of letting an unhandled panic in the reactor or the
// completion pump take the whole process down. Every Engine starts
// exactly one of these (the pump, which calls the reactor's wait inline)
// and it runs for the context's whole lifetime — there is no pool, no
// queue, and no worker aging here, unlike the general-purpose elastic
// goroutine pool this is trimmed from; a single long-lived background
// loop doesn't need one.
func spawn(logger *slog.Logger, name string, f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("aio: background goroutine panicked",
					"goroutine", name, "panic", r, "stack", string(debug.Stack()))
			}
		}()
		f()
	}()
}
