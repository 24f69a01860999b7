package linuxaio

import "fmt"

// BadResultError wraps a negative result code the kernel returned for a
// completed request — i.e. the operation itself failed, as opposed to a
// failure submitting or draining it. Unwrap gives the underlying
// syscall.Errno.
type BadResultError struct {
	Op  string
	err error
}

func (e *BadResultError) Error() string {
	return fmt.Sprintf("linuxaio: %s: %v", e.Op, e.err)
}

func (e *BadResultError) Unwrap() error { return e.err }
