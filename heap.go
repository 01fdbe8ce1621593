package embedstr

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// heapShards is the number of independently locked pin maps. Must be a power
// of two.
const heapShards = 64

// pinHeap is the allocator behind Boxed values.
//
// A Boxed Str keeps its buffer address in a plain machine word, which the
// garbage collector does not trace. pinHeap roots every buffer it hands out
// in a map keyed by address until free is called, so the buffer stays alive
// exactly as long as the owning Str has not been closed.
//
// Buffers are ordinary Go allocations and the Go heap never moves them, so an
// address recorded at alloc time stays valid until free. Each shard has its
// own mutex; Str itself never locks anything.
type pinHeap struct {
	shards [heapShards]pinShard

	// n counts live (pinned, not yet freed) allocations.
	n atomic.Int64
}

type pinShard struct {
	mu   sync.Mutex
	bufs map[uintptr][]byte
}

var sysHeap = newPinHeap()

func newPinHeap() *pinHeap {
	h := new(pinHeap)
	for i := range h.shards {
		h.shards[i].bufs = make(map[uintptr][]byte)
	}
	return h
}

func (h *pinHeap) shard(addr uintptr) *pinShard {
	return &h.shards[(addr>>4^addr>>12)&(heapShards-1)]
}

// alloc returns a pinned buffer of exactly n bytes.
//
// The underlying allocation is rounded up to a whole number of words. Go's
// tiny allocator aligns small objects only to their size, so an odd-sized
// request could otherwise come back at an odd address.
func (h *pinHeap) alloc(n int) []byte {
	capacity := (n + wordSize - 1) &^ (wordSize - 1)
	if capacity == 0 {
		capacity = wordSize
	}
	b := make([]byte, n, capacity)
	h.pin(b)
	return b
}

// adopt takes ownership of b without copying when its data pointer leaves
// the low bit free, and falls back to a copy otherwise. The caller must not
// use b after the call.
func (h *pinHeap) adopt(b []byte) []byte {
	if len(b) == 0 || uintptr(unsafe.Pointer(unsafe.SliceData(b)))&1 != 0 {
		owned := h.alloc(len(b))
		copy(owned, b)
		return owned
	}
	b = b[:len(b):len(b)]
	h.pin(b)
	return b
}

func (h *pinHeap) pin(b []byte) {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	sh := h.shard(addr)
	sh.mu.Lock()
	if _, dup := sh.bufs[addr]; dup {
		sh.mu.Unlock()
		panic(fmt.Sprintf("embedstr: buffer %#x is already owned", addr))
	}
	sh.bufs[addr] = b
	sh.mu.Unlock()
	h.n.Add(1)
}

// free unpins the n-byte buffer at p. Freeing an address the heap does not
// own, including a second free of the same buffer, panics. So does a length
// that disagrees with the pinned buffer, which catches most stale copies of a
// Boxed Str whose address has since been reused by a new allocation; the
// buffer stays pinned in that case.
func (h *pinHeap) free(p unsafe.Pointer, n int) {
	addr := uintptr(p)
	sh := h.shard(addr)
	sh.mu.Lock()
	b, ok := sh.bufs[addr]
	if ok && len(b) == n {
		delete(sh.bufs, addr)
	}
	sh.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("embedstr: free of unowned buffer %#x", addr))
	}
	if len(b) != n {
		panic(fmt.Sprintf("embedstr: free of %d bytes at %#x, but %d bytes are owned there", n, addr, len(b)))
	}
	h.n.Add(-1)
}

// live reports the number of allocations not yet freed.
func (h *pinHeap) live() int { return int(h.n.Load()) }
