package node

import (
	"github.com/roach88/cjsongen/internal/ir"
	"github.com/roach88/cjsongen/internal/schema"
)

// Node is a sealed interface for flattened nodes.
// Only StructNode, ArrayNode, and PrimitiveNode implement it.
type Node interface {
	ID() ID
	Tag() ir.Tag
	node()
}

// StructNode is a struct with its direct children in declaration order.
type StructNode struct {
	Key    ID
	Fields []ID
}

func (n *StructNode) ID() ID      { return n.Key }
func (n *StructNode) Tag() ir.Tag { return ir.TagStruct }
func (*StructNode) node()         {}

// ArrayNode is an array with its element node.
type ArrayNode struct {
	Key  ID
	Data ID
}

func (n *ArrayNode) ID() ID      { return n.Key }
func (n *ArrayNode) Tag() ir.Tag { return ir.TagArray }
func (*ArrayNode) node()         {}

// PrimitiveNode is a leaf carrying a primitive type.
type PrimitiveNode struct {
	Key  ID
	Kind schema.PrimitiveKind
}

func (n *PrimitiveNode) ID() ID      { return n.Key }
func (n *PrimitiveNode) Tag() ir.Tag { return ir.TagPrimitive }
func (*PrimitiveNode) node()         {}

// OwnsMemory reports whether a value of n's C type holds heap memory that
// a destructor must release.
func OwnsMemory(n Node) bool {
	switch v := n.(type) {
	case *StructNode, *ArrayNode:
		return true
	case *PrimitiveNode:
		return v.Kind == schema.KindStr
	default:
		panic(faultf("OwnsMemory", "unknown node variant %T", n))
	}
}

// Graph is the output of Flatten.
type Graph struct {
	Root  ID
	Names *Names
	Nodes []Node
}
