//go:build !linux

package aio

import "syscall"

type eventFd struct{}

func newEventFd() (*eventFd, error) {
	return nil, syscall.ENOSYS
}

func (e *eventFd) Fd() int { return -1 }

func (e *eventFd) read() (uint64, error) {
	return 0, syscall.ENOSYS
}

func (e *eventFd) bump(delta uint64) error {
	return syscall.ENOSYS
}

func (e *eventFd) Close() error { return nil }
