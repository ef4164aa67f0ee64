package cgen

import (
	"fmt"

	"github.com/roach88/cjsongen/internal/node"
)

// typedefs emits one typedef per struct node, dependencies first.
func (g *gen) typedefs() string {
	var outs []*Output
	for _, n := range g.idx.Nodes() {
		if s, ok := n.(*node.StructNode); ok {
			outs = append(outs, g.typedef(s))
		}
	}
	return joinOutputs(outs)
}

func (g *gen) typedef(s *node.StructNode) *Output {
	out := g.out()
	out.Begin("typedef struct {")
	if len(s.Fields) == 0 {
		// C has no empty structs.
		out.Push("char _empty;")
	}
	for _, f := range s.Fields {
		name := g.idx.MemberName(f)
		switch v := g.idx.Get(f).(type) {
		case *node.StructNode, *node.PrimitiveNode:
			out.Pushf("%s %s;", g.idx.TypeName(f), name)
		case *node.ArrayNode:
			out.Pushf("%s* %s;", g.elemType(v), name)
			out.Pushf("size_t %s_size;", name)
		default:
			panic(&node.Fault{Op: "typedef", Message: fmt.Sprintf("unknown node variant %T", v)})
		}
	}
	out.Close(fmt.Sprintf("} %s;", g.idx.TypeName(s.Key)))
	return out
}
