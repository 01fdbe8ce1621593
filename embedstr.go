// Package embedstr provides Str, an owned, immutable UTF-8 string that fits
// in two machine words.
//
// A Str is the same size as a plain pointer+length pair (16 bytes on 64-bit
// platforms) but stores short texts inline: anything up to MaxInline bytes
// lives inside the value itself and costs no allocation. Longer texts fall
// back to a heap buffer whose pointer and length are packed into the same two
// words.
//
// IMPLEMENTATION:
// There is no separate tag field. One byte of the buffer, the low byte of the
// pointer word, doubles as the discriminant. Heap buffers are always at least
// 2-byte aligned, so a Boxed value has a 0 in that bit; an Embedded value
// stores (len<<1)|1 there and keeps its text in the remaining bytes. The
// length word of a Boxed value is stored shifted left by one to mirror the
// inline scheme. Byte offsets depend on the platform byte order and are
// selected at build time (layout_le.go, layout_be.go).
//
// OWNERSHIP:
// A Boxed Str exclusively owns its buffer. Release it exactly once with Close,
// normally through defer:
//
//	s := embedstr.New(name)
//	defer s.Close()
//
// Go copies structs on assignment, and a copied Boxed Str aliases the
// original's buffer. Treat a Str like a value holding a lock: pass it by
// pointer, move it instead of copying it, and use Clone when an independent
// value is needed. Closing two copies of the same Boxed value is a bug. The
// heap panics when it detects one: always for a second release of a buffer
// still unclaimed, and for a stale copy whose address now holds a buffer of a
// different length. A stale copy that matches a new owner's address and
// length exactly cannot be told apart from it.
//
// A Str performs no synchronization. Concurrent reads are safe; Close must be
// called by the sole owner after all readers are done.
package embedstr

import (
	"errors"
	"strings"
	"unsafe"

	farm "github.com/dgryski/go-farm"
)

// Sentinel errors returned by this package.
var (
	ErrNegativeLength       = errors.New("embedstr: negative length")
	ErrInvalidCapacity      = errors.New("embedstr: symbol table capacity must be positive")
	ErrFingerprintCollision = errors.New("embedstr: fingerprint already bound to a different text")
)

// Mode identifies which representation a Str uses.
type Mode uint8

const (
	// Boxed values keep their text in a separately allocated buffer.
	Boxed Mode = iota
	// Embedded values keep their text inside the Str itself.
	Embedded
)

// Str is an owned, immutable string exactly two machine words wide.
//
// The zero Str is a valid empty string that owns nothing. Strs built by the
// constructors in this package are Embedded for texts of up to MaxInline
// bytes and Boxed otherwise.
type Str struct {
	_ [0]func() // Str is not comparable; compare texts with Equal.

	w [2]uintptr
}

// New returns a Str holding a copy of s.
func New(s string) Str {
	var v Str
	if len(s) <= MaxInline {
		encodeInline(&v, s)
		return v
	}
	buf := sysHeap.alloc(len(s))
	copy(buf, s)
	encodeBoxed(&v, unsafe.Pointer(unsafe.SliceData(buf)), len(buf))
	return v
}

// FromBytes returns a Str holding a copy of b.
func FromBytes(b []byte) Str { return New(btostr(b)) }

// FromOwned returns a Str that takes ownership of b.
//
// Short texts are copied inline and b is left untouched. Longer texts reuse
// b's backing array directly when its address allows it, so the caller must
// not read or write b after the call. The bytes are not validated as UTF-8.
func FromOwned(b []byte) Str {
	if len(b) <= MaxInline {
		return New(btostr(b))
	}
	var v Str
	buf := sysHeap.adopt(b)
	encodeBoxed(&v, unsafe.Pointer(unsafe.SliceData(buf)), len(buf))
	return v
}

// Mode reports whether s is Embedded or Boxed. It reads a single byte and
// never allocates.
func (s *Str) Mode() Mode {
	if s.tag()&1 == 1 {
		return Embedded
	}
	return Boxed
}

// String returns the text of s.
//
// The result borrows s's storage: it stays valid until s is closed or
// overwritten. Use strings.Clone to keep the text longer than that.
func (s *Str) String() string {
	if s.Mode() == Embedded {
		return decodeInline(s)
	}
	return boxedView(s)
}

// Len returns the length of the text in bytes.
func (s *Str) Len() int {
	if s.Mode() == Embedded {
		return inlineLen(s)
	}
	_, n := decodeBoxed(s)
	return n
}

// IsEmpty reports whether s holds the empty string.
func (s *Str) IsEmpty() bool { return s.Len() == 0 }

// AppendTo appends the text of s to dst and returns the extended slice.
func (s *Str) AppendTo(dst []byte) []byte { return append(dst, s.String()...) }

// Equal reports whether s and other hold the same text, regardless of mode.
func (s *Str) Equal(other *Str) bool { return s.String() == other.String() }

// Compare returns an integer comparing the texts of s and other
// lexicographically: 0 if equal, -1 if s < other, +1 if s > other.
func (s *Str) Compare(other *Str) int { return strings.Compare(s.String(), other.String()) }

// Fingerprint returns the 64-bit farmhash fingerprint of the text. The value
// is stable across processes and platforms.
func (s *Str) Fingerprint() uint64 { return farm.Fingerprint64(stob(s.String())) }

// Clone returns an independent Str with the same text. The clone must be
// closed separately.
func (s *Str) Clone() Str { return New(s.String()) }

// Close releases the heap buffer of a Boxed s and leaves s as an empty
// Embedded value, so closing again does nothing. Embedded values own no
// external memory. Close always returns nil; it implements io.Closer.
func (s *Str) Close() error {
	if s.Mode() == Boxed {
		reclaim(s)
	}
	s.w = [2]uintptr{}
	encodeInline(s, "")
	return nil
}
