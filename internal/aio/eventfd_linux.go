//go:build linux

package aio

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// eventFd wraps a Linux eventfd(2) descriptor in counter mode (not
// EFD_SEMAPHORE).
// Every read returns the accumulated 64-bit counter since the last read and
// resets it to zero; every write adds to the counter. This package uses one
// eventFd registered with every submitted iocb (so the kernel bumps it on
// completion) and a second, unregistered one purely as a wakeup source the
// reactor can select alongside it.
type eventFd struct {
	fd int
}

// newEventFd creates a non-blocking eventfd with an initial counter of 0.
func newEventFd() (*eventFd, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &eventFd{fd: fd}, nil
}

// Fd returns the underlying file descriptor, e.g. for registering with epoll
// or for writing into aio_resfd.
func (e *eventFd) Fd() int {
	return e.fd
}

// read drains the counter. On a non-blocking eventfd with nothing pending
// this returns EAGAIN, which callers treat as "not ready yet".
func (e *eventFd) read() (uint64, error) {
	var counter uint64
	buf := (*[8]byte)(unsafe.Pointer(&counter))[:]
	_, err := unix.Read(e.fd, buf)
	if err != nil {
		return 0, err
	}
	return counter, nil
}

// bump adds delta to the counter, waking anything blocked reading it. Used
// to wake the reactor out of epoll_wait on shutdown.
func (e *eventFd) bump(delta uint64) error {
	buf := (*[8]byte)(unsafe.Pointer(&delta))[:]
	_, err := unix.Write(e.fd, buf)
	return err
}

func (e *eventFd) Close() error {
	return unix.Close(e.fd)
}
