package aio

// Linux AIO syscall numbers for arm64, per the generic syscall table
// (asm-generic/unistd.h) arm64 shares with other newer architectures.
const (
	sysIoSetup     = 0
	sysIoDestroy   = 1
	sysIoSubmit    = 2
	sysIoGetevents = 4
)
