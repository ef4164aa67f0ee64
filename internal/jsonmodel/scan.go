package jsonmodel

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// The primitive readers below follow the de.h prelude contract the
// generated code links against. They never skip whitespace.

func (d *decoder) expectNotDone(parsing string) error {
	if d.pos >= len(d.input) {
		return d.fail("got EOF while parsing '%s'", parsing)
	}
	return nil
}

func (d *decoder) expectChar(want byte, parsing string) error {
	if d.pos >= len(d.input) {
		return d.fail("expected '%c' while parsing '%s', got EOF", want, parsing)
	}
	if got := d.input[d.pos]; got != want {
		return d.fail("expected '%c' while parsing '%s', got '%c'", want, parsing, got)
	}
	return nil
}

// readStr reads a quoted string. The result is heap allocated on success
// only.
func (d *decoder) readStr(parsing string) (String, error) {
	if err := d.expectChar('"', parsing); err != nil {
		return "", err
	}
	d.pos++
	var b strings.Builder
	for {
		if err := d.expectNotDone(parsing); err != nil {
			return "", err
		}
		c := d.input[d.pos]
		switch {
		case c == '"':
			d.pos++
			d.ledger.alloc()
			return String(b.String()), nil
		case c == '\\':
			d.pos++
			if err := d.escape(&b, parsing); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", d.fail("unexpected control character while parsing '%s'", parsing)
		default:
			b.WriteByte(c)
			d.pos++
		}
	}
}

func (d *decoder) escape(b *strings.Builder, parsing string) error {
	if err := d.expectNotDone(parsing); err != nil {
		return err
	}
	c := d.input[d.pos]
	d.pos++
	switch c {
	case '"', '\\', '/':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := d.hex4(parsing)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			if !strings.HasPrefix(d.input[d.pos:], `\u`) {
				return d.fail("unpaired surrogate while parsing '%s'", parsing)
			}
			d.pos += 2
			lo, err := d.hex4(parsing)
			if err != nil {
				return err
			}
			if r = utf16.DecodeRune(r, lo); r == utf8.RuneError {
				return d.fail("unpaired surrogate while parsing '%s'", parsing)
			}
		}
		if r == 0 {
			return d.fail("unsupported '\\u0000' while parsing '%s'", parsing)
		}
		b.WriteRune(r)
	default:
		return d.fail("invalid escape '\\%c' while parsing '%s'", c, parsing)
	}
	return nil
}

func (d *decoder) hex4(parsing string) (rune, error) {
	if d.pos+4 > len(d.input) {
		d.pos = len(d.input)
		return 0, d.fail("got EOF while parsing '%s'", parsing)
	}
	n, err := strconv.ParseUint(d.input[d.pos:d.pos+4], 16, 32)
	if err != nil {
		return 0, d.fail("invalid unicode escape while parsing '%s'", parsing)
	}
	d.pos += 4
	return rune(n), nil
}

// readInt reads -?(0|[1-9][0-9]*) into an int64.
func (d *decoder) readInt(parsing string) (Int, error) {
	start := d.pos
	if d.pos < len(d.input) && d.input[d.pos] == '-' {
		d.pos++
	}
	if err := d.expectNotDone(parsing); err != nil {
		return 0, err
	}
	digits := d.pos
	for d.pos < len(d.input) && isDigit(d.input[d.pos]) {
		d.pos++
	}
	switch {
	case d.pos == digits:
		return 0, d.fail("expected '0'..'9' while parsing '%s', got '%c'", parsing, d.input[d.pos])
	case d.input[digits] == '0' && d.pos-digits > 1:
		d.pos = digits + 1
		return 0, d.fail("leading zero while parsing '%s'", parsing)
	}
	n, err := strconv.ParseInt(d.input[start:d.pos], 10, 64)
	if err != nil {
		return 0, d.fail("integer out of range while parsing '%s'", parsing)
	}
	return Int(n), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (d *decoder) readBool(parsing string) (Bool, error) {
	switch {
	case strings.HasPrefix(d.input[d.pos:], "true"):
		d.pos += 4
		return true, nil
	case strings.HasPrefix(d.input[d.pos:], "false"):
		d.pos += 5
		return false, nil
	}
	if d.pos >= len(d.input) {
		return false, d.fail("expected 't' or 'f' while parsing '%s', got EOF", parsing)
	}
	return false, d.fail("expected 'true' or 'false' while parsing '%s'", parsing)
}
