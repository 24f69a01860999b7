package aio

import "sync/atomic"

// result is what a completed request delivers to its waiter: the kernel's
// io_event.Res/Res2 pair, already folded into a byte count plus error by
// the pump (see pump.go).
type result struct {
	n   int
	err error
}

// cell states. The original Rust implementation relies on a oneshot
// channel whose receiver's Drop cancels the send; Go has no destructor to
// hook, so cell makes the same race explicit as a three-state CAS instead:
// the pump and an abandoning waiter both try to move the cell out of open,
// and exactly one of them wins.
const (
	cellOpen int32 = iota
	cellDelivered
	cellAbandoned
)

// cell is a single-use, single-value handoff between the completion pump
// and the goroutine that submitted a request. At most one of deliver and
// abandon ever takes effect. If deliver loses, the result is dropped and
// the pump recycles the request; if abandon loses, the result is already
// buffered and the waiter drains it and recycles the request itself.
type cell struct {
	state atomic.Int32
	ch    chan result
}

// newCell allocates a cell with a capacity-1 result channel, so deliver
// never blocks regardless of whether anyone ever receives.
func newCell() *cell {
	return &cell{ch: make(chan result, 1)}
}

// reset prepares a cell for reuse by a freshly-issued request. Only valid
// once the previous use has fully settled (Wait has returned, or abandon
// has been observed by the pump).
func (c *cell) reset() {
	c.state.Store(cellOpen)
	c.ch = make(chan result, 1)
}

// deliver is called by the completion pump with the request's outcome. It
// reports whether the waiter was still around to receive it; false means
// the waiter abandoned the request first and the pump owns recycling it.
func (c *cell) deliver(r result) bool {
	if !c.state.CompareAndSwap(cellOpen, cellDelivered) {
		return false
	}
	c.ch <- r
	return true
}

// abandon is called by a cancelling waiter before the pump has delivered a
// result. It reports whether the abandonment took effect; false means the
// pump had already delivered and the waiter should consume the normal
// Wait path instead of treating the request as cancelled.
func (c *cell) abandon() bool {
	return c.state.CompareAndSwap(cellOpen, cellAbandoned)
}

// wait blocks until deliver has been called, then returns the result.
// Callers that may also want to observe ctx cancellation select on Done()
// themselves and call abandon on the losing path.
func (c *cell) wait() result {
	return <-c.ch
}

// Done exposes the result channel for use in a select alongside
// ctx.Done(); a value arriving on it is the same delivery wait() would
// have returned.
func (c *cell) Done() <-chan result {
	return c.ch
}
