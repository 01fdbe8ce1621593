package embedstr

import (
	"fmt"
	"io"
	"strconv"
)

// String returns "Embedded" or "Boxed".
func (m Mode) String() string {
	switch m {
	case Embedded:
		return "Embedded"
	case Boxed:
		return "Boxed"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// GoString returns the mode followed by the quoted text, for example
// Embedded("a") or Boxed("1234567890123456").
//
// GoString and Format take a value receiver so that a Str prints as text
// whether it is formatted directly, through a pointer, or as a struct field.
func (s Str) GoString() string {
	return s.Mode().String() + "(" + strconv.Quote(s.String()) + ")"
}

// Format implements fmt.Formatter.
//
// %s and %v print the text verbatim, %q prints it quoted, and %#v prints
// GoString. Width and precision flags are honoured as for a plain string.
func (s Str) Format(f fmt.State, verb rune) {
	text := s.String()
	switch {
	case verb == 'v' && f.Flag('#'):
		_, _ = io.WriteString(f, s.GoString())
	case verb == 'v', verb == 's', verb == 'q', verb == 'x', verb == 'X':
		fmt.Fprintf(f, fmt.FormatString(f, verb), text)
	default:
		fmt.Fprintf(f, "%%!%c(embedstr.Str=%s)", verb, text)
	}
}
