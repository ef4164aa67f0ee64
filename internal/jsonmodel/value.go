package jsonmodel

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a decoded or constructible value of a schema node.
// Sealed: String, Int, Bool, List and Record.
type Value interface {
	value()
}

// String is a str primitive.
type String string

// Int is an int primitive.
type Int int64

// Bool is a bool primitive.
type Bool bool

// List is an array value.
type List []Value

// Member is one field of a Record.
type Member struct {
	Name  string
	Value Value
}

// Record is a struct value with members in declaration order.
type Record []Member

func (String) value() {}
func (Int) value()    {}
func (Bool) value()   {}
func (List) value()   {}
func (Record) value() {}

// Get returns the member named name.
func (r Record) Get(name string) (Value, bool) {
	for _, m := range r {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Equal reports whether a and b hold the same data. Nil and empty lists
// are equal; record members compare in order.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Record:
		y, ok := b.(Record)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i].Name != y[i].Name || !Equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// Describe renders v for diagnostics. It is not the wire format.
func Describe(v Value) string {
	var b strings.Builder
	describe(&b, v)
	return b.String()
}

func describe(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case String:
		b.WriteString(strconv.Quote(string(x)))
	case Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case Bool:
		b.WriteString(strconv.FormatBool(bool(x)))
	case List:
		b.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			describe(b, e)
		}
		b.WriteByte(']')
	case Record:
		b.WriteByte('{')
		for i, m := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.Name)
			b.WriteString(": ")
			describe(b, m.Value)
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "<%T>", v)
	}
}
