//go:build linux

package linuxaio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferArenaAllocFree(t *testing.T) {
	a, err := NewBufferArena(2 * blockSize)
	if err != nil {
		t.Skipf("linuxaio: buffer arena unavailable in this environment: %v", err)
	}
	defer a.Close()

	b1 := a.Alloc(4096)
	require.NotNil(t, b1)
	assert.Len(t, b1, 4096)

	b2 := a.Alloc(8192)
	require.NotNil(t, b2)

	a.Free(b1)
	a.Free(b2)
}

// TestBufferArenaExhaustion exercises the free-list running dry: a
// two-block arena can satisfy exactly two concurrent allocations; a third
// returns nil until a Free gives a block back.
func TestBufferArenaExhaustion(t *testing.T) {
	a, err := NewBufferArena(2 * blockSize)
	if err != nil {
		t.Skipf("linuxaio: buffer arena unavailable in this environment: %v", err)
	}
	defer a.Close()

	b1 := a.Alloc(blockSize)
	require.NotNil(t, b1)
	b2 := a.Alloc(blockSize)
	require.NotNil(t, b2)

	assert.Nil(t, a.Alloc(blockSize))

	a.Free(b1)
	assert.NotNil(t, a.Alloc(blockSize))
}

func TestBufferArenaRejectsOversizedAlloc(t *testing.T) {
	a, err := NewBufferArena(2 * blockSize)
	if err != nil {
		t.Skipf("linuxaio: buffer arena unavailable in this environment: %v", err)
	}
	defer a.Close()

	assert.Nil(t, a.Alloc(blockSize+1))
}
