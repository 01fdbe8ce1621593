package embedstr

import (
	"fmt"
	"unsafe"
)

// Layout constants.
//
// A Str is exactly two machine words. The byte at discOffset doubles as the
// discriminant: its low bit is 1 for an Embedded value and 0 for a Boxed one.
// The per-byte-order offsets (discOffset, inlineOffset, ptrWord, lenWord) live
// in layout_le.go and layout_be.go and are fixed at build time.
const (
	wordSize = int(unsafe.Sizeof(uintptr(0)))
	bufSize  = 2 * wordSize // 16 on 64-bit, 8 on 32-bit.

	// MaxInline is the longest text, in bytes, stored without a heap
	// allocation: 15 on 64-bit platforms and 7 on 32-bit ones.
	MaxInline = bufSize - 1
)

// The Embedded length is kept in the upper seven bits of the discriminant
// byte, so the inline capacity can never exceed 127 bytes.
var _ [127 - MaxInline]struct{}

// hostLittle reports the byte order observed at run time. init compares it
// against the byte order the build tags selected.
var hostLittle = func() bool {
	var i uint16 = 1
	return *(*byte)(unsafe.Pointer(&i)) == 1
}()

func init() {
	if hostLittle != layoutLittle {
		panic(fmt.Sprintf("embedstr: build selected little-endian=%t layout on a little-endian=%t host",
			layoutLittle, hostLittle))
	}

	// Boxed values rely on the allocator never handing out an odd address;
	// the pointer's low bit is the discriminant. Check one at startup.
	sample := sysHeap.alloc(bufSize)
	p := uintptr(unsafe.Pointer(unsafe.SliceData(sample)))
	sysHeap.free(unsafe.Pointer(unsafe.SliceData(sample)), len(sample))
	if p&1 != 0 {
		panic(fmt.Sprintf("embedstr: heap returned odd address %#x; boxed values need 2-byte alignment", p))
	}
}

// raw exposes the two words of s as bytes.
func (s *Str) raw() *[bufSize]byte { return (*[bufSize]byte)(unsafe.Pointer(&s.w)) }

// tag returns the discriminant byte without touching the rest of the buffer.
func (s *Str) tag() byte { return s.raw()[discOffset] }
