package schema

// Str returns a string primitive marker.
func Str() Primitive { return Primitive{Kind: KindStr} }

// Int returns a 64-bit integer primitive marker.
func Int() Primitive { return Primitive{Kind: KindInt} }

// Bool returns a boolean primitive marker.
func Bool() Primitive { return Primitive{Kind: KindBool} }

// ArrayOf wraps elem in a one-element array.
func ArrayOf(elem Value) Array {
	return Array{Elems: []Value{elem}}
}

// F is a shorthand for Field construction.
// Example: Object(F("id", Int()), F("tags", ArrayOf(Str())))
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// Object builds an anonymous nested struct from fields, preserving order.
func Object(fields ...Field) Fields {
	return Fields(fields)
}

// NewStruct builds a named definition.
func NewStruct(name string, fields ...Field) Struct {
	return Struct{Name: name, Fields: Fields(fields)}
}
