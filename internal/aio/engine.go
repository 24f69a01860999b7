package aio

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Engine is the internal AIO context: kernel handle, request pool,
// admission semaphore, and the reactor/pump pair that drains completions.
// The public linuxaio.Context is a thin wrapper around one of these.
type Engine struct {
	nr     int
	handle uintptr

	pool *pool
	sem  *semaphore.Weighted

	compFd *eventFd
	stopFd *eventFd
	rx     *reactor
	pm     *pump

	logger *slog.Logger

	closeOnce sync.Once
}

// New creates a kernel AIO context able to hold nr outstanding requests,
// along with the pool, admission semaphore, reactor and completion pump
// that serve it. The pump is already running by the time New returns.
func New(nr int, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	compFd, err := newEventFd()
	if err != nil {
		return nil, &setupError{nr: uint(nr), err: err}
	}
	stopFd, err := newEventFd()
	if err != nil {
		compFd.Close()
		return nil, &setupError{nr: uint(nr), err: err}
	}

	var handle uintptr
	if err := ioSetup(uint(nr), &handle); err != nil {
		compFd.Close()
		stopFd.Close()
		return nil, &setupError{nr: uint(nr), err: err}
	}

	rx, err := newReactor(compFd.Fd(), stopFd.Fd())
	if err != nil {
		ioDestroy(handle)
		compFd.Close()
		stopFd.Close()
		return nil, &setupError{nr: uint(nr), err: err}
	}

	e := &Engine{
		nr:     nr,
		handle: handle,
		pool:   newPool(nr),
		sem:    semaphore.NewWeighted(int64(nr)),
		compFd: compFd,
		stopFd: stopFd,
		rx:     rx,
		logger: logger,
	}
	e.pm = newPump(handle, nr, e.pool, e.sem, logger, compFd, stopFd, rx)
	spawn(logger, "aio-pump", e.pm.run)

	logger.Info("aio: context created", "nr", nr)
	return e, nil
}

// AvailableSlots returns the number of currently-unused admission permits.
func (e *Engine) AvailableSlots() int {
	// semaphore.Weighted has no direct accessor; track availability via
	// TryAcquire/Release would disturb state, so the pool's ready-list
	// length is the equivalent observable: a request is ready exactly when
	// its permit is available; the two always move together by construction.
	return e.pool.readyCount()
}

// Submit runs one request to completion: it acquires a permit, seeds and
// issues the iocb, and blocks on the result cell (or ctx cancellation).
// fd is the already-open file descriptor the command targets.
func (e *Engine) Submit(ctx context.Context, fd int, opcode uint16, buf []byte, offset int64, rwFlags uint32) (int, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}

	req := e.pool.take()
	req.done.reset()

	var bufPtr uint64
	if len(buf) > 0 {
		bufPtr = addrOfSlice(buf)
	}

	req.cb = iocb{
		Data:    req.addr(),
		RWFlags: rwFlags,
		Opcode:  opcode,
		Fd:      uint32(fd),
		Buf:     bufPtr,
		Nbytes:  uint64(len(buf)),
		Offset:  offset,
		Flags:   IOCB_FLAG_RESFD,
		ResFd:   uint32(e.compFd.Fd()),
	}

	n, err := ioSubmit(e.handle, &req.cb)
	if err != nil || n != 1 {
		e.pool.release(req)
		e.sem.Release(1)
		if err == nil {
			err = errSubmitShortCount
		}
		return 0, &submitError{fd: fd, op: opcode, err: err}
	}

	select {
	case res := <-req.done.Done():
		e.pool.release(req)
		e.sem.Release(1)
		return res.n, res.err
	case <-ctx.Done():
		if req.done.abandon() {
			// The pump will observe the failed delivery when the kernel
			// eventually completes this request and recycle it then; we
			// must not touch the pool or the semaphore now, the request
			// is still outstanding in the kernel.
			return 0, ctx.Err()
		}
		// Lost the race: the pump already delivered. Drain the value it's
		// sitting on and return the real result instead of a spurious
		// cancellation.
		res := <-req.done.Done()
		e.pool.release(req)
		e.sem.Release(1)
		return res.n, res.err
	}
}

// Close tears the context down: stops the pump, asserts nothing is still
// outstanding in the kernel, destroys the kernel handle, and releases the
// event descriptors. Safe to call more than once; only the first call does
// anything.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.pm.stop()
		e.rx.Close()

		if n := e.pool.outstandingCount(); n != 0 {
			e.logger.Error("aio: context closed with requests still outstanding in the kernel", "count", n)
		}

		err = ioDestroy(e.handle)
		e.compFd.Close()
		e.stopFd.Close()
		e.logger.Info("aio: context closed")
	})
	return err
}
