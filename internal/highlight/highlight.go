// Package highlight colours generated C for terminals.
//
// Tokenize splits source into spans that cover it exactly, so rendering
// with an empty theme reproduces the input byte for byte.
package highlight

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Style classifies a span.
type Style int

const (
	StyleSpace Style = iota
	StylePunct
	StyleIdent
	StyleKeyword
	StyleType
	StyleString
	StyleNumber
	StyleComment
	StylePreprocessor
)

var styleNames = [...]string{"space", "punct", "ident", "keyword", "type", "string", "number", "comment", "preprocessor"}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Span is the byte range [Start, End) of one token.
type Span struct {
	Start, End int
	Style      Style
}

// Text returns the span's text within src.
func (s Span) Text(src string) string { return src[s.Start:s.End] }

var keywords = map[string]bool{
	"break": true, "case": true, "const": true, "continue": true, "default": true,
	"do": true, "else": true, "enum": true, "extern": true, "for": true, "goto": true,
	"if": true, "inline": true, "return": true, "sizeof": true, "static": true,
	"struct": true, "switch": true, "typedef": true, "union": true, "while": true,
}

var primitives = map[string]bool{
	"bool": true, "char": true, "int": true, "int64_t": true, "size_t": true,
	"unsigned": true, "void": true,
}

var literals = map[string]bool{"true": true, "false": true, "NULL": true}

// classify styles an identifier. Words starting with an upper case letter
// and containing a lower case one are generated struct types.
func classify(word string) Style {
	switch {
	case keywords[word]:
		return StyleKeyword
	case primitives[word]:
		return StyleType
	case literals[word]:
		return StyleNumber
	case word[0] >= 'A' && word[0] <= 'Z' && strings.ToUpper(word) != word:
		return StyleType
	default:
		return StyleIdent
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Tokenize splits C source into styled spans.
func Tokenize(src string) []Span {
	var spans []Span
	lineStart := true
	i := 0
	emit := func(end int, style Style) {
		spans = append(spans, Span{Start: i, End: end, Style: style})
		i = end
	}
	scanTo := func(j int, stop func(byte) bool) int {
		for j < len(src) && !stop(src[j]) {
			j++
		}
		return j
	}

	for i < len(src) {
		c := src[i]
		switch {
		case isSpace(c):
			j := scanTo(i, func(b byte) bool { return !isSpace(b) })
			if strings.ContainsRune(src[i:j], '\n') {
				lineStart = true
			}
			emit(j, StyleSpace)
			continue
		case c == '#' && lineStart:
			emit(scanTo(i, func(b byte) bool { return b == '\n' }), StylePreprocessor)
		case strings.HasPrefix(src[i:], "//"):
			emit(scanTo(i, func(b byte) bool { return b == '\n' }), StyleComment)
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				emit(len(src), StyleComment)
			} else {
				emit(i+2+end+2, StyleComment)
			}
		case c == '"' || c == '\'':
			emit(quoted(src, i), StyleString)
		case c >= '0' && c <= '9':
			emit(scanTo(i, func(b byte) bool { return !isIdentByte(b) && b != '.' }), StyleNumber)
		case isIdentStart(c):
			j := scanTo(i, func(b byte) bool { return !isIdentByte(b) })
			emit(j, classify(src[i:j]))
		default:
			emit(i+1, StylePunct)
		}
		lineStart = false
	}
	return spans
}

// quoted returns the end of the literal opened at src[i]. An unterminated
// literal ends at the line break.
func quoted(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}

// Theme maps styles to ANSI SGR parameters. Unmapped styles are written
// plain.
type Theme map[Style]string

// DefaultTheme uses 256-colour codes.
var DefaultTheme = Theme{
	StyleKeyword:      "38;5;208",
	StyleType:         "38;5;108",
	StyleString:       "38;5;142",
	StyleNumber:       "38;5;175",
	StyleComment:      "38;5;245",
	StylePreprocessor: "38;5;167",
}

// Render writes src with each span wrapped in its theme's escape codes.
func Render(w io.Writer, src string, spans []Span, theme Theme) error {
	var b strings.Builder
	for _, s := range spans {
		text := s.Text(src)
		if code, ok := theme[s.Style]; ok && code != "" {
			b.WriteString("\x1b[")
			b.WriteString(code)
			b.WriteString("m")
			b.WriteString(text)
			b.WriteString("\x1b[0m")
			continue
		}
		b.WriteString(text)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ColorMode selects when output is coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (expected auto, always or never)", s)
}

// Enabled reports whether output to w should be coloured. In auto mode
// only terminals are coloured.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write renders src to w, coloured when mode allows.
func Write(w io.Writer, src string, mode ColorMode) error {
	if !mode.Enabled(w) {
		_, err := io.WriteString(w, src)
		return err
	}
	return Render(w, src, Tokenize(src), DefaultTheme)
}
