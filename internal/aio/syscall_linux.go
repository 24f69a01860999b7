//go:build linux && (amd64 || arm64)

package aio

import (
	"syscall"
	"unsafe"
)

// ioSetup creates a kernel AIO context able to hold nr outstanding requests.
//
// See io_setup(2).
func ioSetup(nr uint, ctxp *uintptr) error {
	_, _, errno := syscall.Syscall(sysIoSetup, uintptr(nr), uintptr(unsafe.Pointer(ctxp)), 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// ioDestroy tears down a kernel AIO context. It must be called exactly once,
// and only once every submitted request has completed.
//
// See io_destroy(2).
func ioDestroy(ctx uintptr) error {
	_, _, errno := syscall.Syscall(sysIoDestroy, ctx, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// ioSubmit submits one iocb for asynchronous execution. It returns the
// number of iocbs the kernel accepted, which is 1 on success; any other
// value (including a negative errno) is a submission failure.
//
// See io_submit(2).
func ioSubmit(ctx uintptr, cb *iocb) (int, error) {
	cbs := [1]*iocb{cb}
	r, _, errno := syscall.Syscall(sysIoSubmit, ctx, 1, uintptr(unsafe.Pointer(&cbs[0])))
	if errno != 0 {
		return int(r), errno
	}
	return int(r), nil
}

// ioGetevents drains between min and max completed events from ctx into
// events, blocking until at least min are available (a nil timeout blocks
// indefinitely; this package always passes one because the caller already
// knows the requested count is ready).
//
// See io_getevents(2).
func ioGetevents(ctx uintptr, min, max int, events []ioEvent) (int, error) {
	r, _, errno := syscall.Syscall6(sysIoGetevents, ctx, uintptr(min), uintptr(max),
		uintptr(unsafe.Pointer(&events[0])), 0, 0)
	if errno != 0 {
		return int(r), errno
	}
	return int(r), nil
}
