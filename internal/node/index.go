package node

import (
	"fmt"

	"github.com/roach88/cjsongen/internal/ir"
	"github.com/roach88/cjsongen/internal/schema"
)

// Index resolves IDs to nodes and C spellings for one flattened struct.
// It is immutable once built.
type Index struct {
	names *Names
	root  ID
	order []Node
	byID  []Node
}

// NewIndex builds an Index over g, checking that every name is unique,
// every reference resolves, and every derived C identifier is unique.
func NewIndex(g *Graph) (*Index, error) {
	if g == nil || g.Names == nil {
		return nil, faultf("NewIndex", "nil graph")
	}
	x := &Index{
		names: g.Names,
		root:  g.Root,
		order: g.Nodes,
		byID:  make([]Node, g.Names.Len()+1),
	}
	for _, n := range g.Nodes {
		id := n.ID()
		if int(id) <= 0 || int(id) >= len(x.byID) {
			return nil, faultf("NewIndex", "node %s has no interned name", id)
		}
		if x.byID[id] != nil {
			return nil, faultf("NewIndex", "encountered duplicate name '%s'", g.Names.Path(id))
		}
		x.byID[id] = n
	}
	if err := x.checkReferences(); err != nil {
		return nil, err
	}
	if err := x.checkIdentifiers(); err != nil {
		return nil, err
	}
	return x, nil
}

// FromStruct flattens s and indexes the result.
func FromStruct(s ir.Struct) (*Index, error) {
	g, err := Flatten(s)
	if err != nil {
		return nil, err
	}
	return NewIndex(g)
}

// Get returns the node for id. An unknown id is an internal fault and
// panics with *Fault.
func (x *Index) Get(id ID) Node {
	if int(id) <= 0 || int(id) >= len(x.byID) || x.byID[id] == nil {
		panic(faultf("Index.Get", "encountered non-existent node %s", id))
	}
	return x.byID[id]
}

// Lookup resolves a qualified name.
func (x *Index) Lookup(path string) (Node, error) {
	id, ok := x.names.Lookup(path)
	if !ok || x.byID[id] == nil {
		return nil, fmt.Errorf("no node named %q", path)
	}
	return x.byID[id], nil
}

// Root returns the top-level struct node.
func (x *Index) Root() *StructNode {
	root, ok := x.Get(x.root).(*StructNode)
	if !ok {
		panic(faultf("Index.Root", "root %q is not a struct", x.Path(x.root)))
	}
	return root
}

// Nodes returns the flattened nodes in emission order.
func (x *Index) Nodes() []Node { return x.order }

// Path returns the qualified name of id.
func (x *Index) Path(id ID) string { return x.names.Path(id) }

// TypeName returns the C spelling of a value of node id: char*, int64_t,
// bool, or the PascalCase name of a struct/array.
func (x *Index) TypeName(id ID) string {
	switch n := x.Get(id).(type) {
	case *StructNode, *ArrayNode:
		return TypeName(x.Path(id))
	case *PrimitiveNode:
		return PrimitiveType(n.Kind)
	default:
		panic(faultf("Index.TypeName", "unknown node variant %T", n))
	}
}

// FuncName returns the snake_case function stem for id.
func (x *Index) FuncName(id ID) string { return FuncName(x.Path(id)) }

// MemberName returns the C member name id occupies in its parent struct.
func (x *Index) MemberName(id ID) string { return MemberName(x.Path(id)) }

// JSONKey returns the JSON object key for a struct field node.
func (x *Index) JSONKey(id ID) string { return FieldKey(x.Path(id)) }

// PrimitiveType maps a primitive kind to its C spelling.
func PrimitiveType(k schema.PrimitiveKind) string {
	switch k {
	case schema.KindStr:
		return "char*"
	case schema.KindInt:
		return "int64_t"
	case schema.KindBool:
		return "bool"
	default:
		panic(faultf("PrimitiveType", "unknown primitive kind %v", k))
	}
}

func (x *Index) checkReferences() error {
	if x.root == NoID || int(x.root) >= len(x.byID) || x.byID[x.root] == nil {
		return faultf("NewIndex", "missing root node")
	}
	if _, ok := x.byID[x.root].(*StructNode); !ok {
		return faultf("NewIndex", "root '%s' is not a struct", x.Path(x.root))
	}
	resolve := func(owner, ref ID) error {
		if int(ref) <= 0 || int(ref) >= len(x.byID) || x.byID[ref] == nil {
			return faultf("NewIndex", "'%s' references non-existent node %s", x.Path(owner), ref)
		}
		return nil
	}
	for _, n := range x.order {
		switch v := n.(type) {
		case *StructNode:
			for _, f := range v.Fields {
				if err := resolve(v.Key, f); err != nil {
					return err
				}
			}
		case *ArrayNode:
			if err := resolve(v.Key, v.Data); err != nil {
				return err
			}
			if _, nested := x.byID[v.Data].(*ArrayNode); nested {
				return &NestedArrayError{Path: x.Path(v.Key)}
			}
		case *PrimitiveNode:
		default:
			return faultf("NewIndex", "unknown node variant %T", n)
		}
	}
	return nil
}

func (x *Index) checkIdentifiers() error {
	types := map[string]ID{}
	structFns := map[string]ID{}
	arrayFns := map[string]ID{}

	claim := func(seen map[string]ID, kind, ident string, id ID) error {
		if prev, ok := seen[ident]; ok && prev != id {
			return &CollisionError{Kind: kind, Identifier: ident, First: x.Path(prev), Second: x.Path(id)}
		}
		seen[ident] = id
		return nil
	}

	for _, n := range x.order {
		switch v := n.(type) {
		case *StructNode:
			if err := claim(types, "type", x.TypeName(v.Key), v.Key); err != nil {
				return err
			}
			if err := claim(structFns, "function", x.FuncName(v.Key), v.Key); err != nil {
				return err
			}
			members := map[string]ID{}
			for _, f := range v.Fields {
				m := x.MemberName(f)
				if err := claim(members, "member", m, f); err != nil {
					return err
				}
				if _, isArray := x.byID[f].(*ArrayNode); isArray {
					if err := claim(members, "member", m+"_size", f); err != nil {
						return err
					}
				}
			}
		case *ArrayNode:
			if err := claim(arrayFns, "function", x.FuncName(v.Key), v.Key); err != nil {
				return err
			}
		}
	}
	return nil
}
