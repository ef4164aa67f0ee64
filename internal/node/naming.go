package node

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cKeywords are C11 keywords plus names the runtime prelude or the
// standard headers included by generated code already claim.
var cKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
	"_Alignas": true, "_Alignof": true, "_Atomic": true, "_Bool": true,
	"_Complex": true, "_Generic": true, "_Imaginary": true, "_Noreturn": true,
	"_Static_assert": true, "_Thread_local": true,
	"bool": true, "true": true, "false": true, "size_t": true, "int64_t": true,
	"NULL": true, "DeCtx": true, "DeCtxResult": true, "DeStr": true,
}

// StripMarker removes array element segments from a qualified name.
func StripMarker(path string) string {
	return strings.ReplaceAll(path, "."+ArrayMarker, "")
}

// TypeName derives the PascalCase C type name for a qualified name:
// every '.' or '_' separated piece gets its first letter upper-cased and
// the pieces are concatenated.
func TypeName(path string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	pieces := strings.FieldsFunc(StripMarker(path), func(r rune) bool {
		return r == '.' || r == '_'
	})
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(caser.String(p))
	}
	return escapeIdentifier(sanitizeIdentifier(b.String()))
}

// FuncName derives the snake_case stem used for generated function names.
// Segments are converted individually and joined with '_'.
func FuncName(path string) string {
	segments := strings.Split(StripMarker(path), ".")
	for i, seg := range segments {
		segments[i] = snake(seg)
	}
	return escapeIdentifier(sanitizeIdentifier(strings.Join(segments, "_")))
}

// MemberName derives the C struct member name for a field: the snake_case
// form of the last segment.
func MemberName(path string) string {
	stripped := StripMarker(path)
	last := stripped[strings.LastIndexByte(stripped, '.')+1:]
	return escapeIdentifier(sanitizeIdentifier(snake(last)))
}

// FieldKey returns the raw schema field name of a qualified name, which
// is also the JSON object key.
func FieldKey(path string) string {
	return path[strings.LastIndexByte(path, '.')+1:]
}

// snake lower-cases s, inserting '_' before each interior capital letter.
func snake(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sanitizeIdentifier replaces characters that cannot appear in a C
// identifier with '_' and prefixes a leading digit.
func sanitizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		valid := r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
		if !valid {
			b.WriteByte('_')
			continue
		}
		if i == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeIdentifier(name string) string {
	if cKeywords[name] {
		return name + "_"
	}
	return name
}
