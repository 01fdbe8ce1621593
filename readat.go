package embedstr

import (
	"fmt"
	"io"
	"unsafe"
)

// ReadAt returns a Str holding the n bytes of r starting at offset off.
//
// The bytes are read straight into their final home, the inline buffer for
// short texts or a fresh heap buffer for long ones, with no intermediate copy.
// This makes ReadAt the cheapest way to lift a string out of a memory-mapped
// file or any other io.ReaderAt.
//
// A short read is reported as an error wrapping the reader's error (or
// io.ErrUnexpectedEOF) and releases any buffer allocated for the call.
func ReadAt(r io.ReaderAt, off int64, n int) (Str, error) {
	var v Str
	if n < 0 {
		return v, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}

	if n <= MaxInline {
		if err := readFull(r, v.raw()[inlineOffset:inlineOffset+n], off); err != nil {
			return Str{}, err
		}
		encodeInlineLen(&v, n)
		return v, nil
	}

	buf := sysHeap.alloc(n)
	if err := readFull(r, buf, off); err != nil {
		sysHeap.free(unsafe.Pointer(unsafe.SliceData(buf)), n)
		return Str{}, err
	}
	encodeBoxed(&v, unsafe.Pointer(unsafe.SliceData(buf)), n)
	return v, nil
}

// readFull fills p from r at off. A reader may return io.EOF alongside a
// complete read that ends exactly at the end of its input; that is success.
func readFull(r io.ReaderAt, p []byte, off int64) error {
	if len(p) == 0 {
		return nil
	}
	got, err := r.ReadAt(p, off)
	if got == len(p) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("embedstr: read %d bytes at offset %d (got %d): %w", len(p), off, got, err)
}
