package embedstr

import "unsafe"

// zero‑copy []byte → string (safe as long as b isn't mutated afterwards).
func btostr(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// zero‑copy string → []byte; the result must never be written to.
func stob(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
