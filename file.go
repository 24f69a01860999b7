package linuxaio

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/direct-io/linuxaio/internal/aio"
	"golang.org/x/sys/unix"
)

// File owns a single file descriptor opened for direct I/O and issues its
// read/write/sync operations against a shared Context. It does not own or
// validate the buffers passed to Read/Write — they must come from a
// BufferArena (or otherwise be page-aligned and page-pinned), since the
// kernel rejects anything else for an O_DIRECT descriptor.
type File struct {
	ctx *Context
	fd  int
}

// Open opens path for direct, read-write I/O against ctx.
func Open(ctx *Context, path string) (*File, error) {
	return open(ctx, path, unix.O_RDWR)
}

// Create opens path for direct, read-write I/O, creating it with mode perm
// if it doesn't already exist.
func Create(ctx *Context, path string, perm os.FileMode) (*File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_DIRECT, uint32(perm))
	if err != nil {
		return nil, fmt.Errorf("linuxaio: open %s: %w", path, err)
	}
	return &File{ctx: ctx, fd: fd}, nil
}

func open(ctx *Context, path string, flags int) (*File, error) {
	fd, err := unix.Open(path, flags|unix.O_DIRECT, 0)
	if err != nil {
		return nil, fmt.Errorf("linuxaio: open %s: %w", path, err)
	}
	return &File{ctx: ctx, fd: fd}, nil
}

// Close closes the underlying file descriptor. It does not wait for or
// cancel any in-flight operation against this file — callers must ensure
// every Read/Write/Sync call has returned first.
func (f *File) Close() error {
	return unix.Close(f.fd)
}

// Read issues a positional read of len(buf) bytes starting at offset, and
// returns the number of bytes the kernel reported reading.
func (f *File) Read(ctx context.Context, offset int64, buf []byte) (int, error) {
	n, err := f.ctx.submit(ctx, f.fd, opRead, buf, offset, 0)
	return n, f.wrapErr("read", err)
}

// Write issues a positional write of buf starting at offset, with no
// additional durability guarantee beyond the normal page-cache writeback
// (use WriteSync for fsync/fdatasync semantics).
func (f *File) Write(ctx context.Context, offset int64, buf []byte) (int, error) {
	n, err := f.ctx.submit(ctx, f.fd, opWrite, buf, offset, 0)
	return n, f.wrapErr("write", err)
}

// WriteSync issues a positional write the same as Write, but asks the
// kernel to honor level's durability guarantee (RWF_DSYNC or RWF_SYNC)
// before reporting completion.
func (f *File) WriteSync(ctx context.Context, offset int64, buf []byte, level SyncLevel) (int, error) {
	n, err := f.ctx.submit(ctx, f.fd, opWrite, buf, offset, level.rwFlag())
	return n, f.wrapErr("write_sync", err)
}

// Sync requests a full file sync (fsync semantics: data and all metadata).
func (f *File) Sync(ctx context.Context) error {
	_, err := f.ctx.submit(ctx, f.fd, opFsync, nil, 0, 0)
	return f.wrapErr("sync", err)
}

// DataSync requests a data-only sync (fdatasync semantics: data and only
// the metadata needed to retrieve it).
func (f *File) DataSync(ctx context.Context) error {
	_, err := f.ctx.submit(ctx, f.fd, opFdatasync, nil, 0, 0)
	return f.wrapErr("data_sync", err)
}

func (f *File) wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *aio.ResultError
	if errors.As(err, &re) {
		return &BadResultError{Op: op, err: re.Unwrap()}
	}
	return err
}
