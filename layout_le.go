//go:build 386 || amd64 || amd64p32 || arm || arm64 || loong64 || mips64le || mips64p32le || mipsle || ppc64le || riscv || riscv64 || wasm

package embedstr

// Little-endian layout.
//
//	byte 0        discriminant, (len<<1)|1 when Embedded
//	bytes 1..W-1  inline text
//	word 0        pointer (its low byte is byte 0)
//	word 1        len<<1
const (
	layoutLittle = true

	discOffset   = 0
	inlineOffset = 1

	ptrWord = 0
	lenWord = 1
)
