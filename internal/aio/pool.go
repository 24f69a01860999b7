package aio

import (
	"fmt"
	"sync"
)

// pool is the fixed-capacity Request arena plus the two intrusive lists
// threaded through it: ready holds slots available for a new submission,
// outstanding holds slots the kernel currently owns. arena is a plain
// []Request allocated once in newPool and never grown or re-sliced after
// that — a Go slice's backing array doesn't move once allocated, which is
// what lets the kernel carry a Request's address across
// io_submit/io_getevents as opaque user-data for the arena's whole
// lifetime.
//
// All list mutation goes through the mutex. Code that only needs to know
// whether a given Request is currently linked can read link.isLinked()
// without it.
type pool struct {
	mu    sync.Mutex
	arena []Request
	ready *list
	out   *list
}

// newPool builds an arena of nr Requests, all initially on the ready list.
func newPool(nr int) *pool {
	p := &pool{
		arena: make([]Request, nr),
		ready: newList(func(r *Request) *link { return &r.readyLink }),
		out:   newList(func(r *Request) *link { return &r.outLink }),
	}

	for i := range p.arena {
		r := &p.arena[i]
		r.init()
		p.ready.PushBack(r)
	}
	return p
}

// capacity is the fixed arena size, i.e. the kernel AIO context's nr.
func (p *pool) capacity() int {
	return len(p.arena)
}

// take removes a Request from the ready list and moves it to outstanding,
// the caller having already reserved a slot via the admission semaphore
// (engine.go). It panics if the ready list is unexpectedly empty, which
// would mean the admission semaphore and the pool have drifted out of
// sync — a programming error, not a runtime condition callers need to
// handle gracefully.
func (p *pool) take() *Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.ready.PopFront()
	if r == nil {
		panic(fmt.Sprintf("aio: pool exhausted with %d outstanding, %d ready", p.out.Len(), p.ready.Len()))
	}
	p.out.PushBack(r)
	return r
}

// release moves r from outstanding back to ready, making it available for
// the next take. Called by Engine.Submit when io_submit fails or once the
// waiter has received its result, and by the pump when it recycles a
// request whose waiter abandoned it.
func (p *pool) release(r *Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.out.remove(r)
	p.ready.PushBack(r)
}

// readyCount reports how many requests are currently available for a new
// submission.
func (p *pool) readyCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready.Len()
}

// outstandingCount reports how many requests the kernel currently owns;
// used at shutdown to assert the pump has drained everything before
// io_destroy runs (spec: a context may only be destroyed once its
// outstanding set is empty).
func (p *pool) outstandingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Len()
}
