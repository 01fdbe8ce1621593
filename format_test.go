package embedstr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	long := strings.Repeat("1234567890", 2)[:bufSize]

	tests := []struct {
		name   string
		input  string
		format string
		want   string
	}{
		{name: "display embedded", input: "a", format: "%v", want: "a"},
		{name: "display boxed", input: long, format: "%s", want: long},
		{name: "debug embedded", input: "a", format: "%#v", want: `Embedded("a")`},
		{name: "debug boxed", input: long, format: "%#v", want: `Boxed("` + long + `")`},
		{name: "debug empty", input: "", format: "%#v", want: `Embedded("")`},
		{name: "debug escapes", input: "a\tb", format: "%#v", want: `Embedded("a\tb")`},
		{name: "quoted", input: "q", format: "%q", want: `"q"`},
		{name: "padded", input: "ab", format: "%5s|", want: "   ab|"},
		{name: "hex", input: "hi", format: "%x", want: "6869"},
		{name: "bad verb", input: "n", format: "%d", want: "%!d(embedstr.Str=n)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.input)
			defer s.Close()
			assert.Equal(t, tt.want, fmt.Sprintf(tt.format, &s))
		})
	}
}

func TestFormatValue(t *testing.T) {
	long := strings.Repeat("v", bufSize+4)

	short := New("a")
	boxed := New(long)
	defer short.Close()
	defer boxed.Close()

	t.Run("value", func(t *testing.T) {
		assert.Equal(t, "a", fmt.Sprint(short))
		assert.Equal(t, long, fmt.Sprintf("%s", boxed))
		assert.Equal(t, `Embedded("a")`, fmt.Sprintf("%#v", short))
		assert.Equal(t, `Boxed("`+long+`")`, fmt.Sprintf("%#v", boxed))
		assert.Equal(t, `"a"`, fmt.Sprintf("%q", short))
	})

	t.Run("struct field", func(t *testing.T) {
		type symbol struct {
			Name Str
			Line int
		}
		sym := symbol{Name: New("main"), Line: 7}
		defer sym.Name.Close()

		assert.Equal(t, "{main 7}", fmt.Sprint(sym))
		assert.Equal(t, "{Name:main Line:7}", fmt.Sprintf("%+v", sym))
		assert.Contains(t, fmt.Sprintf("%#v", sym), `Name:Embedded("main")`)
	})

	t.Run("slice of values", func(t *testing.T) {
		vals := []Str{New("x"), New(long)}
		defer vals[0].Close()
		defer vals[1].Close()

		assert.Equal(t, "[x "+long+"]", fmt.Sprint(vals))
	})
}

func TestFormatScenarios(t *testing.T) {
	if bufSize != 16 {
		t.Skip("requires a 64-bit platform")
	}

	s := New("a")
	defer s.Close()
	assert.Equal(t, "a", fmt.Sprint(&s))
	assert.Equal(t, `Embedded("a")`, fmt.Sprintf("%#v", &s))
	assert.Equal(t, `Embedded("a")`, s.GoString())

	b := New("1234567890123456")
	defer b.Close()
	assert.Equal(t, "1234567890123456", fmt.Sprint(&b))
	assert.Equal(t, `Boxed("1234567890123456")`, fmt.Sprintf("%#v", &b))
	assert.Equal(t, `Boxed("1234567890123456")`, b.GoString())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "Embedded", Embedded.String())
	assert.Equal(t, "Boxed", Boxed.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestFormatInErrors(t *testing.T) {
	s := New("identifier that does not fit inline")
	defer s.Close()

	err := fmt.Errorf("lookup %s: %w", &s, ErrFingerprintCollision)
	assert.Contains(t, err.Error(), "identifier that does not fit inline")
	assert.ErrorIs(t, err, ErrFingerprintCollision)
}
