//go:build linux

package aio

import (
	"golang.org/x/sys/unix"
)

// reactor wakes the completion pump whenever the kernel posts completions
// to compFd, or when Close is called. It's a thin epoll_wait loop over
// exactly two file descriptors — there's no general registration API
// because this package only ever watches these two — grounded on the
// corpus's own epoll_wait wrapper idiom (EpollWait via the raw syscall
// number, a single flat events buffer reused across calls) but built on
// golang.org/x/sys/unix instead of a hand-rolled RawSyscall6, since this
// package isn't nested inside a runtime package that can link
// entersyscallblock/exitsyscall the way the teacher's internal netpoll
// package could.
type reactor struct {
	epfd   int
	compFd int
	stopFd int
}

func newReactor(compFd, stopFd int) (*reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	r := &reactor{epfd: epfd, compFd: compFd, stopFd: stopFd}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, compFd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(compFd),
	}); err != nil {
		unix.Close(epfd)
		return nil, err
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, stopFd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(stopFd),
	}); err != nil {
		unix.Close(epfd)
		return nil, err
	}
	return r, nil
}

// wait blocks until either the completion eventfd or the stop eventfd
// becomes readable, and reports which. If both are readable it reports
// both; the pump then drains the completions before it stops.
func (r *reactor) wait() (completion bool, stop bool, err error) {
	var events [2]unix.EpollEvent
	for {
		n, err := unix.EpollWait(r.epfd, events[:], -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, false, err
		}
		for i := 0; i < n; i++ {
			switch int(events[i].Fd) {
			case r.compFd:
				completion = true
			case r.stopFd:
				stop = true
			}
		}
		return completion, stop, nil
	}
}

func (r *reactor) Close() error {
	return unix.Close(r.epfd)
}
