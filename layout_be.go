//go:build armbe || arm64be || mips || mips64 || mips64p32 || ppc || ppc64 || s390 || s390x || sparc || sparc64

package embedstr

// Big-endian layout.
//
//	bytes 0..W-2  inline text
//	byte W-1      discriminant, (len<<1)|1 when Embedded
//	word 0        len<<1
//	word 1        pointer (its low byte is byte W-1)
const (
	layoutLittle = false

	discOffset   = bufSize - 1
	inlineOffset = 0

	ptrWord = 1
	lenWord = 0
)
