package schema

import (
	"fmt"
	"strings"
)

// Value is a sealed interface for schema values.
// Only Primitive, Fields, and Array implement it.
type Value interface {
	hirValue()
}

// PrimitiveKind enumerates the primitive markers a field may carry.
type PrimitiveKind int

const (
	// KindInvalid is the zero value and never produced by ParseKind.
	KindInvalid PrimitiveKind = iota
	KindStr
	KindInt
	KindBool
)

// String returns the canonical token for the kind.
func (k PrimitiveKind) String() string {
	switch k {
	case KindStr:
		return "str"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// ParseKind maps a primitive token to its kind.
// Accepted tokens: "str", "string", "int", "bool".
func ParseKind(token string) (PrimitiveKind, error) {
	switch strings.TrimSpace(token) {
	case "str", "string":
		return KindStr, nil
	case "int":
		return KindInt, nil
	case "bool":
		return KindBool, nil
	default:
		return KindInvalid, fmt.Errorf("unknown primitive type %q (expected str, string, int or bool)", token)
	}
}

// Primitive is a primitive-type marker.
type Primitive struct {
	Kind PrimitiveKind
}

func (Primitive) hirValue() {}

// Field is one entry of an ordered field mapping.
type Field struct {
	Name  string
	Value Value
}

// Fields is an ordered field mapping. As a Value it denotes an anonymous
// nested struct.
type Fields []Field

func (Fields) hirValue() {}

// Names returns the field names in declaration order.
func (fs Fields) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Get returns the value bound to name.
func (fs Fields) Get(name string) (Value, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Array is the sequence form of an array declaration. A well-formed
// array carries exactly one element: the element type.
type Array struct {
	Elems []Value
}

func (Array) hirValue() {}

// Struct is a named top-level definition.
type Struct struct {
	Name   string
	Fields Fields
}
