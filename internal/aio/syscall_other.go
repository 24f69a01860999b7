//go:build !linux || (linux && !amd64 && !arm64)

package aio

import "syscall"

// Stub build for platforms without legacy AIO support: anything other than
// Linux, or a Linux architecture this package hasn't pinned syscall numbers
// for yet. Mirrors the teacher's own non-Linux stub
// (internal/iouring/syscall_other.go) field for field — every entry point
// returns ENOSYS instead of failing to link.

func ioSetup(nr uint, ctxp *uintptr) error {
	return syscall.ENOSYS
}

func ioDestroy(ctx uintptr) error {
	return syscall.ENOSYS
}

func ioSubmit(ctx uintptr, cb *iocb) (int, error) {
	return 0, syscall.ENOSYS
}

func ioGetevents(ctx uintptr, min, max int, events []ioEvent) (int, error) {
	return 0, syscall.ENOSYS
}
