package linuxaio

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// blockSize is the fixed size of every buffer a BufferArena hands out.
// Direct I/O workloads in this domain move fixed-size positional blocks
// (spec.md's reference scenarios all read/write 8192-byte chunks at a
// time), so a single free-list of same-size blocks needs no splitting or
// coalescing logic at all — unlike a general-purpose allocator that has to
// handle arbitrary request sizes.
const blockSize = 8192

// BufferArena is a single mmap'd, mlock'd slab of memory subdivided into
// fixed-size, page-aligned blocks direct I/O requires. Direct I/O
// (O_DIRECT) rejects buffers the kernel can page out or that aren't
// aligned to the device's logical block size; mlock pins the pages
// resident and mmap with MAP_ANONYMOUS hands back page-aligned memory to
// begin with, which a plain make([]byte, n) does not guarantee.
//
// One arena is meant to be shared by many buffer allocations rather than
// mmap'd per buffer — mmap/mlock are themselves syscalls, and a direct-I/O
// workload issuing thousands of small reads would otherwise pay that cost
// per operation.
type BufferArena struct {
	mu   sync.Mutex
	mem  []byte
	free []int // byte offsets into mem of free blocks, used as a stack
}

// NewBufferArena mmaps size bytes (rounded up to a multiple of blockSize),
// mlocks them, and divides the result into blockSize-byte blocks ready to
// hand out.
func NewBufferArena(size int) (*BufferArena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("linuxaio: buffer arena size must be positive, got %d", size)
	}
	if rem := size % blockSize; rem != 0 {
		size += blockSize - rem
	}

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("linuxaio: mmap buffer arena: %w", err)
	}
	if err := unix.Mlock(mem); err != nil {
		unix.Munmap(mem)
		return nil, fmt.Errorf("linuxaio: mlock buffer arena: %w", err)
	}

	nBlocks := size / blockSize
	free := make([]int, nBlocks)
	for i := range free {
		free[i] = i * blockSize
	}

	return &BufferArena{mem: mem, free: free}, nil
}

// Alloc carves a pinned buffer of exactly size bytes out of one free
// block. size must not exceed blockSize. It returns nil if no block is
// large enough or none are free.
func (a *BufferArena) Alloc(size int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if size <= 0 || size > blockSize || len(a.free) == 0 {
		return nil
	}
	n := len(a.free) - 1
	off := a.free[n]
	a.free = a.free[:n]
	return a.mem[off : off+size : off+blockSize]
}

// Free returns a buffer previously obtained from Alloc to its block's free
// list. buf must be a slice into this arena's memory, as returned by
// Alloc — the block it belongs to is recovered from buf's own address.
func (a *BufferArena) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	off := int(uintptr(unsafe.Pointer(&buf[0])) - uintptr(unsafe.Pointer(&a.mem[0])))
	off -= off % blockSize
	a.free = append(a.free, off)
}

// Available reports the arena's free byte capacity, for diagnostics.
func (a *BufferArena) Available() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.free) * blockSize
}

// Close unlocks and unmaps the arena. Every buffer handed out by Alloc
// must have been freed (or simply abandoned) before calling Close; using
// a buffer after Close is a use-after-unmap.
func (a *BufferArena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := unix.Munlock(a.mem); err != nil {
		return fmt.Errorf("linuxaio: munlock buffer arena: %w", err)
	}
	return unix.Munmap(a.mem)
}
