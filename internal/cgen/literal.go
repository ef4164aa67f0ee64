package cgen

import (
	"fmt"
	"strings"
)

// cString returns s as the body of a C string literal.
func cString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '"':
			b.WriteString(`\"`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// JSONEscape escapes s for embedding between JSON quotes. Generated
// serializers write object keys in this form.
func JSONEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r < 0x20:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// printfSafe escapes '%' in a literal body used as a printf format.
func printfSafe(body string) string {
	return strings.ReplaceAll(body, "%", "%%")
}

// format is a printf format string built from literal text and macro
// pieces such as PRId64, rendered as adjacent C string literals.
type format struct {
	parts []formatPart
}

type formatPart struct {
	text  string // already escaped literal body
	macro string
}

func (f *format) text(body string) *format {
	f.parts = append(f.parts, formatPart{text: body})
	return f
}

func (f *format) macro(name string) *format {
	f.parts = append(f.parts, formatPart{macro: name})
	return f
}

// String renders f as a C expression, e.g. "{\"id\":%" PRId64 "}".
func (f *format) String() string {
	var b strings.Builder
	open := false
	for _, p := range f.parts {
		if p.macro != "" {
			if open {
				b.WriteString(`" `)
				open = false
			} else if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.macro)
			continue
		}
		if p.text == "" {
			continue
		}
		if !open {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('"')
			open = true
		}
		b.WriteString(p.text)
	}
	if open {
		b.WriteByte('"')
	}
	if b.Len() == 0 {
		return `""`
	}
	return b.String()
}
