package aio

// Opcodes understood by the kernel's struct iocb.aio_lio_opcode. Only the
// four this package submits are named; the kernel defines more (poll,
// vectored variants) that this adapter never issues.
const (
	IOCB_CMD_PREAD   = 0
	IOCB_CMD_PWRITE  = 1
	IOCB_CMD_FSYNC   = 2
	IOCB_CMD_FDSYNC  = 3
)

// aio_flags bits.
const (
	// IOCB_FLAG_RESFD asks the kernel to signal aio_resfd (an eventfd) when
	// this request completes, instead of only updating the completion ring.
	IOCB_FLAG_RESFD = 1 << 0
)

// aio_rw_flags sync-level bits, applied to IOCB_CMD_PWRITE. These are the
// same RWF_* bits the vectored pwritev2/preadv2 family uses.
const (
	RWF_DSYNC = 0x2
	RWF_SYNC  = 0x4
)

// iocb mirrors the kernel's struct iocb (linux/aio_abi.h) field-for-field,
// including its padding, so its address can be handed to io_submit and its
// aio_data word can carry a pointer back to the owning Request. Field order
// matches the little-endian PADDED() expansion the kernel headers use on
// amd64 and arm64, the two architectures this package's syscall façade
// targets.
type iocb struct {
	Data     uint64 // aio_data — set to the owning Request's address
	Key      uint32 // aio_key — reserved, always zero on submission
	RWFlags  uint32 // aio_rw_flags — RWF_* sync level bits
	Opcode   uint16 // aio_lio_opcode
	ReqPrio  int16  // aio_reqprio — unused, always zero
	Fd       uint32 // aio_fildes
	Buf      uint64 // aio_buf — user buffer address
	Nbytes   uint64 // aio_nbytes — buffer length
	Offset   int64  // aio_offset — file offset
	Reserved uint64 // aio_reserved2 — unused, always zero
	Flags    uint32 // aio_flags — IOCB_FLAG_RESFD
	ResFd    uint32 // aio_resfd — eventfd to signal on completion
}

// ioEvent mirrors the kernel's struct io_event, the fixed-size record
// io_getevents fills in for each completed request.
type ioEvent struct {
	Data uint64 // echoes iocb.Data — the owning Request's address
	Obj  uint64 // echoes the submitted iocb's address; unused here
	Res  int64  // byte count (>=0) or -errno (<0)
	Res2 int64  // secondary result; always zero for the opcodes used here
}
