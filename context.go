// Package linuxaio bridges the Linux legacy AIO syscalls
// (io_setup/io_destroy/io_submit/io_getevents) to goroutine-based
// concurrency: application code issues positional reads and writes and
// whole-file or data-only syncs against files opened for direct I/O, and
// the calling goroutine blocks on a channel — not an OS thread — until the
// kernel reports completion.
//
// The hard engineering (request pool, intrusive lists, completion pump,
// syscall façade, reactor) lives in internal/aio; this package is a thin,
// typed façade over it.
package linuxaio

import (
	"context"
	"time"

	"github.com/direct-io/linuxaio/internal/aio"
)

// Context is a handle to a kernel AIO context able to hold a fixed number
// of outstanding requests. It's safe for concurrent use by many
// goroutines; Open/Create share one Context across many Files.
type Context struct {
	engine        *aio.Engine
	submitTimeout time.Duration
}

// New creates a kernel AIO context with capacity nr — the maximum number
// of requests that may be outstanding in the kernel at once. Submissions
// beyond nr block until an earlier one completes.
func New(nr int, opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	e, err := aio.New(nr, o.logger)
	if err != nil {
		return nil, err
	}
	return &Context{engine: e, submitTimeout: o.submitTimeout}, nil
}

// AvailableSlots returns the number of currently-unused admission permits.
func (c *Context) AvailableSlots() int {
	return c.engine.AvailableSlots()
}

// Close tears the context down. It blocks until the completion pump has
// exited; any request still outstanding in the kernel at that point is a
// programming error (a File was used after its owning goroutines should
// have drained) and is logged rather than silently ignored.
func (c *Context) Close() error {
	return c.engine.Close()
}

func (c *Context) submit(ctx context.Context, fd int, opcode uint16, buf []byte, offset int64, rwFlags uint32) (int, error) {
	if c.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.submitTimeout)
		defer cancel()
	}
	return c.engine.Submit(ctx, fd, opcode, buf, offset, rwFlags)
}
