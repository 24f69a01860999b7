package aio

// Linux AIO syscall numbers for amd64. These are not exposed by either the
// standard library or golang.org/x/sys/unix, so — the same way the teacher
// package reaches straight for a raw syscall number on architectures the
// wrapper libraries don't cover (internal/iouring/syscall_linux_mips.go) —
// this package invokes them directly.
const (
	sysIoSetup     = 206
	sysIoDestroy   = 207
	sysIoGetevents = 208
	sysIoSubmit    = 209
)
