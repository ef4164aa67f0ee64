package ir

import (
	"fmt"

	"github.com/roach88/cjsongen/internal/schema"
)

// NormalizeError reports HIR that violates the one-element array rule.
type NormalizeError struct {
	Path    string
	Message string
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Path, e.Message)
}

// Normalize rewrites an HIR struct into its MIR form. The result has the
// same shape and field order as the input.
func Normalize(s schema.Struct) (Struct, error) {
	fields, err := normalizeFields(s.Fields, s.Name)
	if err != nil {
		return Struct{}, err
	}
	return Struct{Name: s.Name, Fields: fields}, nil
}

// NormalizeAll normalizes each definition in order.
func NormalizeAll(defs []schema.Struct) ([]Struct, error) {
	out := make([]Struct, 0, len(defs))
	for _, def := range defs {
		s, err := Normalize(def)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func normalizeFields(fields schema.Fields, path string) ([]Field, error) {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		v, err := normalizeValue(f.Value, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Name: f.Name, Value: v})
	}
	return out, nil
}

func normalizeValue(v schema.Value, path string) (Value, error) {
	switch val := v.(type) {
	case schema.Primitive:
		if val.Kind == schema.KindInvalid {
			return nil, &NormalizeError{Path: path, Message: "primitive without a type"}
		}
		return Primitive{Kind: val.Kind}, nil
	case schema.Fields:
		fields, err := normalizeFields(val, path)
		if err != nil {
			return nil, err
		}
		return Object{Fields: fields}, nil
	case schema.Array:
		if len(val.Elems) != 1 {
			return nil, &NormalizeError{
				Path:    path,
				Message: fmt.Sprintf("array must have exactly one element type, got %d", len(val.Elems)),
			}
		}
		elem, err := normalizeValue(val.Elems[0], path)
		if err != nil {
			return nil, err
		}
		return Array{Elem: elem}, nil
	case nil:
		return nil, &NormalizeError{Path: path, Message: "missing value"}
	default:
		panic(fmt.Sprintf("ir: unhandled schema value %T", v))
	}
}
