package ir

import (
	"fmt"

	"github.com/roach88/cjsongen/internal/schema"
)

// Value is a sealed interface representing normalized values.
// Only Primitive, Object, and Array implement this.
type Value interface {
	mirValue() // Sealed - only these types implement it
}

// Tag names the variant of a Value.
type Tag string

const (
	TagPrimitive Tag = "primitive"
	TagStruct    Tag = "struct"
	TagArray     Tag = "array"
)

// Primitive is a primitive-tagged value.
type Primitive struct {
	Kind schema.PrimitiveKind
}

func (Primitive) mirValue() {}

// Field is one named entry of an Object.
type Field struct {
	Name  string
	Value Value
}

// Object is a struct-tagged value: an ordered list of fields.
type Object struct {
	Fields []Field
}

func (Object) mirValue() {}

// Array is an array-tagged value wrapping its element type.
type Array struct {
	Elem Value
}

func (Array) mirValue() {}

// Struct is a named, normalized top-level definition.
type Struct struct {
	Name   string
	Fields []Field
}

// Object returns the struct body as a struct-tagged value.
func (s Struct) Object() Object {
	return Object{Fields: s.Fields}
}

// TagOf returns the tag of v.
func TagOf(v Value) Tag {
	switch v.(type) {
	case Primitive:
		return TagPrimitive
	case Object:
		return TagStruct
	case Array:
		return TagArray
	default:
		panic(fmt.Sprintf("ir: unknown Value type %T", v))
	}
}
