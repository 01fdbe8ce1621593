package embedstr

import (
	"strings"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinHeap(t *testing.T) {
	t.Run("alignment", testHeapAlignment)
	t.Run("live counting", testHeapLiveCounting)
	t.Run("adopt", testHeapAdopt)
	t.Run("misuse", testHeapMisuse)
	t.Run("stale copy after reuse", testHeapStaleCopy)
	t.Run("concurrency", testHeapConcurrency)
}

func testHeapAlignment(t *testing.T) {
	h := newPinHeap()
	var bufs [][]byte
	for n := 0; n <= 3*bufSize; n++ {
		b := h.alloc(n)
		require.Len(t, b, n)
		addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
		assert.Zero(t, addr&1, "n=%d addr=%#x", n, addr)
		bufs = append(bufs, b)
	}
	for _, b := range bufs {
		h.free(unsafe.Pointer(unsafe.SliceData(b)), len(b))
	}
	assert.Zero(t, h.live())
}

func testHeapLiveCounting(t *testing.T) {
	h := newPinHeap()
	a := h.alloc(32)
	b := h.alloc(64)
	assert.Equal(t, 2, h.live())

	h.free(unsafe.Pointer(unsafe.SliceData(a)), len(a))
	assert.Equal(t, 1, h.live())
	h.free(unsafe.Pointer(unsafe.SliceData(b)), len(b))
	assert.Equal(t, 0, h.live())
}

func testHeapAdopt(t *testing.T) {
	h := newPinHeap()

	aligned := make([]byte, 48, 96)
	got := h.adopt(aligned)
	assert.Same(t, &aligned[0], &got[0])
	assert.Equal(t, 48, cap(got), "adopted buffer is clipped to its length")

	backing := make([]byte, 49)
	odd := backing[1:]
	copy(odd, strings.Repeat("o", 48))
	cp := h.adopt(odd)
	assert.NotSame(t, &odd[0], &cp[0])
	assert.Equal(t, string(odd), string(cp))

	assert.Equal(t, 2, h.live())
	h.free(unsafe.Pointer(&got[0]), len(got))
	h.free(unsafe.Pointer(&cp[0]), len(cp))
	assert.Zero(t, h.live())
}

func testHeapMisuse(t *testing.T) {
	h := newPinHeap()
	b := h.alloc(32)
	p := unsafe.Pointer(unsafe.SliceData(b))

	assert.Panics(t, func() { h.pin(b) }, "pinning an owned buffer twice")

	assert.Panics(t, func() { h.free(p, 16) }, "length disagrees with the pinned buffer")
	assert.Equal(t, 1, h.live(), "a rejected free leaves the buffer pinned")

	h.free(p, 32)
	assert.Panics(t, func() { h.free(p, 32) }, "double free")

	stranger := make([]byte, 32)
	assert.Panics(t, func() { h.free(unsafe.Pointer(&stranger[0]), 32) }, "free of foreign buffer")
	assert.Zero(t, h.live())
}

// testHeapStaleCopy closes a leftover copy of a Boxed Str after its address
// has been handed to a new, differently sized buffer. The heap must refuse
// rather than unpin the new owner's buffer.
func testHeapStaleCopy(t *testing.T) {
	h := newPinHeap()
	old := h.alloc(48)
	addr := unsafe.Pointer(unsafe.SliceData(old))

	var stale Str
	encodeBoxed(&stale, addr, len(old))
	h.free(addr, len(old))

	// Record a new 32-byte owner under the same address, as happens once
	// the Go heap collects the old buffer and hands its memory out again.
	reused := make([]byte, 32)
	sh := h.shard(uintptr(addr))
	sh.mu.Lock()
	sh.bufs[uintptr(addr)] = reused
	sh.mu.Unlock()
	h.n.Add(1)

	p, n := decodeBoxed(&stale)
	assert.Panics(t, func() { h.free(p, n) })
	assert.Equal(t, 1, h.live(), "the new owner's buffer stays pinned")

	h.free(addr, len(reused))
	assert.Zero(t, h.live())
}

func testHeapConcurrency(t *testing.T) {
	const (
		workers = 8
		rounds  = 500
	)
	before := sysHeap.live()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				in := strings.Repeat(string(rune('a'+w)), MaxInline+1+i%64)
				s := New(in)
				if s.String() != in {
					t.Errorf("worker %d round %d: got %q", w, i, s.String())
				}
				_ = s.Close()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, before, sysHeap.live())
}
