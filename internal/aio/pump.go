package aio

import (
	"log/slog"

	"golang.org/x/sync/semaphore"
)

// pump is the background task that drains kernel completions and resumes
// the goroutines blocked in submit. There is exactly one per Engine, and
// it runs for the Engine's whole lifetime.
type pump struct {
	ctx     uintptr
	nr      int
	pool    *pool
	sem     *semaphore.Weighted
	logger  *slog.Logger
	compFd  *eventFd
	stopFd  *eventFd
	reactor *reactor
	done    chan struct{}
}

func newPump(ctxHandle uintptr, nr int, p *pool, sem *semaphore.Weighted, logger *slog.Logger, compFd, stopFd *eventFd, r *reactor) *pump {
	return &pump{
		ctx:     ctxHandle,
		nr:      nr,
		pool:    p,
		sem:     sem,
		logger:  logger,
		compFd:  compFd,
		stopFd:  stopFd,
		reactor: r,
		done:    make(chan struct{}),
	}
}

// run is the pump's whole loop. It's meant to be started via spawn() and
// exits either when the stop eventfd fires or when io_getevents itself
// fails, in which case any requests still outstanding are abandoned by
// design: the kernel still references their addresses, so the arena slots
// they occupy can never be reused. Once run has returned, nothing drains
// completions any more, so no later submission is delivered either.
func (pm *pump) run() {
	defer close(pm.done)

	events := make([]ioEvent, pm.nr)
	for {
		completion, stop, err := pm.reactor.wait()
		if err != nil {
			pm.logger.Error("aio: reactor wait failed, pump exiting", "error", err)
			return
		}
		if completion {
			if !pm.drain(events) {
				return
			}
		}
		if stop {
			return
		}
	}
}

// drain reads the completion eventfd's counter, fetches exactly that many
// events from the kernel, and delivers each. It returns false if the
// get-events syscall itself failed, which is fatal for the pump.
func (pm *pump) drain(events []ioEvent) bool {
	available, err := pm.compFd.read()
	if err != nil {
		// EAGAIN: epoll said readable but the counter was already zero (a
		// spurious wakeup). Any read error is treated as no work.
		return true
	}
	if available == 0 || available > uint64(pm.nr) {
		pm.logger.Error("aio: kernel reported an impossible completion count",
			"available", available, "nr", pm.nr)
		return false
	}

	n, err := ioGetevents(pm.ctx, int(available), int(available), events)
	if err != nil {
		pm.logger.Error("aio: io_getevents failed, pump exiting", "error", err)
		return false
	}
	if n != int(available) {
		pm.logger.Error("aio: io_getevents returned fewer events than advertised",
			"expected", available, "got", n)
		return false
	}

	for i := 0; i < n; i++ {
		pm.deliver(&events[i])
	}
	return true
}

// deliver routes one completion event back to the request it belongs to.
func (pm *pump) deliver(ev *ioEvent) {
	req := requestFromAddr(ev.Data)

	r := result{}
	if ev.Res < 0 {
		r.err = &ResultError{err: errnoFromRes(ev.Res)}
	} else {
		r.n = int(ev.Res)
	}

	if req.done.deliver(r) {
		// The waiting goroutine owns recycling the request from here.
		return
	}

	// Waiter abandoned the request before this completion arrived; the
	// pump recycles it and gives the permit back (spec: §4.5 recycling
	// branch).
	pm.pool.release(req)
	pm.sem.Release(1)
}

func (pm *pump) stop() {
	_ = pm.stopFd.bump(1)
	<-pm.done
}
