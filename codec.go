package embedstr

import (
	"fmt"
	"unsafe"
)

// encodeInline packs text into the buffer of s.
//
// The discriminant byte becomes (len<<1)|1 and the text is copied verbatim to
// inlineOffset. Bytes past the text are left as they are; decodeInline never
// reads them. Callers route anything longer than MaxInline to the heap codec,
// so a longer text here is a bug in the package itself.
func encodeInline(s *Str, text string) {
	encodeInlineLen(s, len(text))
	copy(s.raw()[inlineOffset:inlineOffset+len(text)], text)
}

// encodeInlineLen marks s as Embedded with an n-byte text. The text bytes at
// inlineOffset are the caller's to fill; ReadAt reads straight into them.
func encodeInlineLen(s *Str, n int) {
	if n < 0 || n > MaxInline {
		panic(fmt.Sprintf("embedstr: inline encode of %d bytes exceeds %d", n, MaxInline))
	}
	s.raw()[discOffset] = byte(n<<1) | 1
}

// inlineLen returns the Embedded length held in the discriminant byte.
func inlineLen(s *Str) int { return int(s.tag() >> 1) }

// decodeInline returns a view of exactly inlineLen(s) bytes stored inside s.
func decodeInline(s *Str) string {
	return unsafe.String(&s.raw()[inlineOffset], inlineLen(s))
}

// encodeBoxed stores a heap pointer and its byte length in the two words of s.
//
// The length word is shifted left by one so that its low bit, like the
// pointer's, is always zero. s takes over ownership of the allocation at p.
func encodeBoxed(s *Str, p unsafe.Pointer, n int) {
	s.w[ptrWord] = uintptr(p)
	s.w[lenWord] = uintptr(n) << 1
}

// decodeBoxed recovers the pointer and byte length written by encodeBoxed.
func decodeBoxed(s *Str) (unsafe.Pointer, int) {
	return *(*unsafe.Pointer)(unsafe.Pointer(&s.w[ptrWord])), int(s.w[lenWord] >> 1)
}

// boxedView returns a borrowed view over the heap buffer of a Boxed s.
func boxedView(s *Str) string {
	p, n := decodeBoxed(s)
	if n == 0 {
		return ""
	}
	return unsafe.String((*byte)(p), n)
}

// reclaim hands the heap buffer of a Boxed s back to the heap. The zero Str
// carries a nil pointer and owns nothing.
func reclaim(s *Str) {
	if p, n := decodeBoxed(s); p != nil {
		sysHeap.free(p, n)
	}
}
