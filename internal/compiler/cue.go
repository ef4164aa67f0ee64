package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/cjsongen/internal/schema"
)

// CompileCUEBytes compiles CUE source and reads the definitions under
// its top-level "struct" field.
func CompileCUEBytes(filename string, src []byte) ([]schema.Struct, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	root := v.LookupPath(cue.ParsePath("struct"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "struct",
			Message: "no struct definitions (expected a top-level 'struct' field)",
			Pos:     v.Pos(),
		}
	}
	return CompileCUE(root)
}

// CompileCUE parses a CUE value whose fields are struct definitions,
// e.g. the value at path "struct" of:
//
//	struct: item: {
//		id:   int
//		tags: [string]
//	}
func CompileCUE(v cue.Value) ([]schema.Struct, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []schema.Struct
	for iter.Next() {
		name := iter.Label()
		fields, err := cueFields(iter.Value(), name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, schema.Struct{Name: name, Fields: fields})
	}
	return defs, nil
}

func cueFields(v cue.Value, path string) (schema.Fields, error) {
	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("expected a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	fields := schema.Fields{}
	for iter.Next() {
		name := iter.Label()
		value, err := cueValue(iter.Value(), path+"."+name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, schema.Field{Name: name, Value: value})
	}
	return fields, nil
}

// cueValue maps a field value to HIR. Types are written either as CUE
// types (string, int, bool) or as token strings ("str", "int", "bool").
func cueValue(v cue.Value, path string) (schema.Value, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	switch kind := v.IncompleteKind(); kind {
	case cue.StructKind:
		return cueFields(v, path)
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var elems []schema.Value
		for iter.Next() {
			elem, err := cueValue(iter.Value(), path)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return schema.Array{Elems: elems}, nil
	case cue.StringKind:
		if !v.IsConcrete() {
			return schema.Str(), nil
		}
		tok, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		k, err := schema.ParseKind(tok)
		if err != nil {
			return nil, &CompileError{Field: path, Message: err.Error(), Pos: v.Pos()}
		}
		return schema.Primitive{Kind: k}, nil
	case cue.IntKind, cue.BoolKind:
		if v.IsConcrete() {
			return nil, &CompileError{
				Field:   path,
				Message: fmt.Sprintf("expected a type, got a concrete %v", kind),
				Pos:     v.Pos(),
			}
		}
		if kind == cue.IntKind {
			return schema.Int(), nil
		}
		return schema.Bool(), nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   path,
			Message: "float types are not supported - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("unsupported type kind: %v", kind),
			Pos:     v.Pos(),
		}
	}
}
