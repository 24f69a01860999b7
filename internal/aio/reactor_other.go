//go:build !linux

package aio

import "syscall"

type reactor struct{}

func newReactor(compFd, stopFd int) (*reactor, error) {
	return nil, syscall.ENOSYS
}

func (r *reactor) wait() (completion bool, stop bool, err error) {
	return false, false, syscall.ENOSYS
}

func (r *reactor) Close() error { return nil }
