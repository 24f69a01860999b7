//go:build linux

package linuxaio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	errBufferUnavailable = errors.New("buffer arena exhausted")
	errPatternMismatch   = errors.New("read buffer did not match the known pattern")
)

const testFileSize = 524288

// writeKnownPattern fills path with testFileSize bytes where byte i has
// value i mod 256, matching the pattern the read scenarios expect.
func writeKnownPattern(t *testing.T, path string) {
	t.Helper()
	buf := make([]byte, testFileSize)
	for i := range buf {
		buf[i] = byte(i % 256)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func newTestArena(t *testing.T) *BufferArena {
	t.Helper()
	a, err := NewBufferArena(1024 * 1024)
	if err != nil {
		t.Skipf("linuxaio: buffer arena unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func newTestContext(t *testing.T, capacity int) *Context {
	t.Helper()
	c, err := New(capacity)
	if err != nil {
		t.Skipf("linuxaio: kernel AIO unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// TestBasicRead is scenario 1.
func TestBasicRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic-read")
	writeKnownPattern(t, path)

	ctx := newTestContext(t, 10)
	arena := newTestArena(t)

	f, err := Open(ctx, path)
	require.NoError(t, err)
	defer f.Close()

	buf := arena.Alloc(8192)
	require.NotNil(t, buf)
	defer arena.Free(buf)

	n, err := f.Read(context.Background(), 0, buf)
	require.NoError(t, err)
	require.Equal(t, 8192, n)

	for i, b := range buf {
		require.Equal(t, byte(i%256), b, "byte %d mismatch", i)
	}
	require.Equal(t, 10, ctx.AvailableSlots())
}

// TestBasicWrite is scenario 2.
func TestBasicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic-write")
	writeKnownPattern(t, path)

	ctx := newTestContext(t, 10)
	arena := newTestArena(t)

	f, err := Open(ctx, path)
	require.NoError(t, err)

	buf := arena.Alloc(8192)
	require.NotNil(t, buf)
	fillPattern(buf, 'A')

	_, err = f.Write(context.Background(), 16384, buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, matchesPattern(got[16384:16384+8192], 'A'))
}

// TestSequentialWritesAtCapacityTwo is scenario 3.
func TestSequentialWritesAtCapacityTwo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sequential-writes")
	writeKnownPattern(t, path)

	ctx := newTestContext(t, 2)
	arena := newTestArena(t)

	f, err := Open(ctx, path)
	require.NoError(t, err)

	type write struct {
		offset int64
		marker byte
	}
	writes := []write{
		{16384, 'A'},
		{32768, 'B'},
		{49152, 'C'},
	}

	for _, w := range writes {
		buf := arena.Alloc(8192)
		require.NotNil(t, buf)
		fillPattern(buf, w.marker)
		_, err := f.Write(context.Background(), w.offset, buf)
		require.NoError(t, err)
		arena.Free(buf)
	}
	require.NoError(t, f.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, w := range writes {
		require.True(t, matchesPattern(got[w.offset:w.offset+8192], w.marker))
	}
}

// TestInvalidOffset is scenario 4.
func TestInvalidOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid-offset")
	writeKnownPattern(t, path)

	ctx := newTestContext(t, 10)
	arena := newTestArena(t)

	f, err := Open(ctx, path)
	require.NoError(t, err)
	defer f.Close()

	buf := arena.Alloc(8192)
	require.NotNil(t, buf)
	defer arena.Free(buf)

	_, err = f.Read(context.Background(), 1_000_000, buf)
	require.Error(t, err)
	var bre *BadResultError
	require.ErrorAs(t, err, &bre)
}

// TestCancellation is scenario 5.
func TestCancellation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cancellation")
	writeKnownPattern(t, path)

	ctx := newTestContext(t, 10)
	arena := newTestArena(t)

	f, err := Open(ctx, path)
	require.NoError(t, err)
	defer f.Close()

	buf := arena.Alloc(8192)
	require.NotNil(t, buf)
	defer arena.Free(buf)

	// Begin the read on its own goroutine, then cancel almost immediately —
	// racing the cancellation against the kernel's own completion so the
	// abandon-before-delivery path in internal/aio gets exercised at least
	// some of the time, matching scenario 5's "drop before it resolves in
	// the same scheduling tick."
	cctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, _ = f.Read(cctx, 0, buf)
	}()
	cancel()

	require.Eventually(t, func() bool {
		return ctx.AvailableSlots() == 10
	}, 2*time.Second, 5*time.Millisecond)
}

// TestOvercommitWaves is scenario 6.
func TestOvercommitWaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overcommit")
	writeKnownPattern(t, path)

	ctx := newTestContext(t, 7)
	arena := newTestArena(t)

	f, err := Open(ctx, path)
	require.NoError(t, err)
	defer f.Close()

	const waves = 50
	const perWave = 100

	for w := 0; w < waves; w++ {
		var wg sync.WaitGroup
		errs := make([]error, perWave)
		for i := 0; i < perWave; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				buf := arena.Alloc(8192)
				if buf == nil {
					errs[i] = errBufferUnavailable
					return
				}
				defer arena.Free(buf)

				offset := int64((i % 32) * 8192)
				_, err := f.Read(context.Background(), offset, buf)
				if err != nil {
					errs[i] = err
					return
				}
				for j, b := range buf {
					if b != byte((int64(j)+offset)%256) {
						errs[i] = errPatternMismatch
						return
					}
				}
			}(i)
		}
		wg.Wait()
		for _, e := range errs {
			require.NoError(t, e)
		}
		require.Equal(t, 7, ctx.AvailableSlots())
	}
}

func fillPattern(buf []byte, marker byte) {
	for i := range buf {
		if i%2 == 0 {
			buf[i] = marker
		} else {
			buf[i] = byte(i % 256)
		}
	}
}

func matchesPattern(buf []byte, marker byte) bool {
	for i, b := range buf {
		var want byte
		if i%2 == 0 {
			want = marker
		} else {
			want = byte(i % 256)
		}
		if b != want {
			return false
		}
	}
	return true
}
