package cgen

import (
	"fmt"
	"strings"

	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

const (
	// DefaultInitialCapacity is the element capacity array parsers
	// allocate before the first doubling.
	DefaultInitialCapacity = 8

	// DefaultIndentWidth is the number of spaces per block level.
	DefaultIndentWidth = 4
)

// Section selects a group of generated output.
type Section string

const (
	SectionTypes Section = "types"
	SectionSer   Section = "ser"
	SectionDe    Section = "de"
)

// AllSections lists every section in emission order.
var AllSections = []Section{SectionTypes, SectionSer, SectionDe}

// ParseSection maps a name to a Section.
func ParseSection(s string) (Section, error) {
	for _, sec := range AllSections {
		if string(sec) == strings.TrimSpace(s) {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q (expected types, ser or de)", s)
}

// Options controls generated text.
type Options struct {
	InitialCapacity int
	IndentWidth     int
	Sections        []Section // nil means all
}

// DefaultOptions returns the generator defaults.
func DefaultOptions() Options {
	return Options{
		InitialCapacity: DefaultInitialCapacity,
		IndentWidth:     DefaultIndentWidth,
	}
}

func (o Options) withDefaults() Options {
	if o.InitialCapacity <= 0 {
		o.InitialCapacity = DefaultInitialCapacity
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	return o
}

// Has reports whether sec is selected.
func (o Options) Has(sec Section) bool {
	if len(o.Sections) == 0 {
		return true
	}
	for _, s := range o.Sections {
		if s == sec {
			return true
		}
	}
	return false
}

// Settings returns the options that affect generated text, for cache keys.
func (o Options) Settings() map[string]any {
	o = o.withDefaults()
	sections := make([]any, 0, len(AllSections))
	for _, sec := range AllSections {
		if o.Has(sec) {
			sections = append(sections, string(sec))
		}
	}
	return map[string]any{
		"initial_capacity": o.InitialCapacity,
		"indent_width":     o.IndentWidth,
		"sections":         sections,
	}
}

// Unit is the generated text for one top-level struct.
type Unit struct {
	Name     string // root qualified name
	TypeName string
	Types    string
	SerDefs  string
	SerImpls string
	DeDefs   string
	DeImpls  string
}

// Generate runs the selected generators over idx.
func Generate(idx *node.Index, opts Options) Unit {
	opts = opts.withDefaults()
	g := &gen{idx: idx, opts: opts}
	root := idx.Root().Key
	u := Unit{Name: idx.Path(root), TypeName: idx.TypeName(root)}
	if opts.Has(SectionTypes) {
		u.Types = g.typedefs()
	}
	if opts.Has(SectionSer) {
		u.SerDefs = g.serializerDefs()
		u.SerImpls = g.serializerImpls()
	}
	if opts.Has(SectionDe) {
		u.DeDefs = g.deserializerDefs()
		u.DeImpls = g.deserializerImpls()
	}
	return u
}

// Text joins the non-empty sections: declarations, serializer
// definitions and implementations, then deserializer definitions and
// implementations.
func (u Unit) Text() string {
	return joinSections(u.Types, u.SerDefs, u.SerImpls, u.DeDefs, u.DeImpls)
}

// Header renders a header file guarded by guard.
func (u Unit) Header(guard string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	b.WriteString("#include <stdbool.h>\n#include <stddef.h>\n#include <stdint.h>\n")
	if u.DeDefs != "" {
		b.WriteString("\n#include \"de.h\"\n")
	}
	if body := joinSections(u.Types, u.SerDefs, u.DeDefs); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	fmt.Fprintf(&b, "\n#endif\n")
	return b.String()
}

// Source renders the implementation file including header.
func (u Unit) Source(header string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s\"\n\n", header)
	b.WriteString("#include <assert.h>\n#include <inttypes.h>\n#include <stdio.h>\n#include <stdlib.h>\n#include <string.h>\n")
	if body := joinSections(u.SerImpls, u.DeImpls); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}

// HeaderGuard derives the default include guard for a struct name.
func HeaderGuard(name string) string {
	return strings.ToUpper(node.FuncName(name)) + "_H"
}

func joinSections(sections ...string) string {
	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

type gen struct {
	idx  *node.Index
	opts Options
}

func (g *gen) out() *Output { return NewOutput(g.opts.IndentWidth) }

// complexNodes returns struct and array nodes in emission order.
func (g *gen) complexNodes() []node.Node {
	var out []node.Node
	for _, n := range g.idx.Nodes() {
		switch n.(type) {
		case *node.StructNode, *node.ArrayNode:
			out = append(out, n)
		}
	}
	return out
}

// elemType is the C type of an array's elements.
func (g *gen) elemType(a *node.ArrayNode) string {
	return g.idx.TypeName(a.Data)
}

// constPtr spells a pointer-to-const of t.
func constPtr(t string) string {
	if strings.HasSuffix(t, "*") {
		return t + " const*"
	}
	return "const " + t + "*"
}

// placeholder appends the printf conversion for a value of n.
func placeholder(f *format, n node.Node) {
	switch v := n.(type) {
	case *node.StructNode, *node.ArrayNode:
		f.text("%s")
	case *node.PrimitiveNode:
		switch v.Kind {
		case schema.KindStr:
			f.text(`\"%s\"`)
		case schema.KindInt:
			f.text("%").macro("PRId64")
		case schema.KindBool:
			f.text("%s")
		default:
			panic(&node.Fault{Op: "cgen", Message: fmt.Sprintf("unknown primitive kind %v", v.Kind)})
		}
	default:
		panic(&node.Fault{Op: "cgen", Message: fmt.Sprintf("unknown node variant %T", n)})
	}
}

func joinOutputs(outs []*Output) string {
	texts := make([]string, len(outs))
	for i, o := range outs {
		texts[i] = o.String()
	}
	return strings.Join(texts, "\n")
}
