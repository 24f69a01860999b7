// Package aio implements the kernel-facing half of the direct I/O adapter:
// the fixed-capacity request pool, the intrusive ready/outstanding lists,
// the completion pump, and the raw io_setup/io_destroy/io_submit/io_getevents
// syscalls. The public package "linuxaio" is a thin façade over Engine.
package aio
