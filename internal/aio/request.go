package aio

import "unsafe"

// Request is one slot in the fixed-capacity arena (pool.go). Its address
// never changes for the lifetime of the arena slot — the kernel is handed
// that address (via iocb.Data) as opaque user-data and echoes it back
// verbatim in the matching io_event, so Request must never be copied or
// relocated once its address has been given to io_submit. pool.go's arena
// is what gives us that guarantee: a []Request allocated once in newPool
// and never grown or re-sliced afterward, so its backing array never
// moves.
type Request struct {
	cb iocb

	readyLink link
	outLink   link

	done *cell
}

// init wires a freshly-carved Request's link owners back to itself. Called
// exactly once per slot, when the arena is built (pool.go), never again —
// the owner pointer is immutable for the Request's whole lifetime.
func (r *Request) init() {
	r.readyLink.owner = r
	r.outLink.owner = r
	r.readyLink.reset()
	r.outLink.reset()
	r.done = newCell()
}

// addr returns the stable address of r, suitable for stashing in an
// iocb.Data field and recovering later via requestFromAddr.
func (r *Request) addr() uint64 {
	return uint64(uintptr(unsafe.Pointer(r)))
}

// requestFromAddr reverses addr: it recovers the *Request the kernel
// handed back as an io_event's Data field. addr must have come from a live
// Request's own addr() call; this package never hands the kernel any
// other uint64 as user-data.
func requestFromAddr(addr uint64) *Request {
	return (*Request)(unsafe.Pointer(uintptr(addr)))
}

// addrOfSlice returns the address of buf's first byte, for seeding
// iocb.Buf. Callers are responsible for ensuring buf is backed by pinned,
// page-aligned memory (see buffer.go) before handing it to the kernel.
func addrOfSlice(buf []byte) uint64 {
	return uint64(uintptr(unsafe.Pointer(&buf[0])))
}
