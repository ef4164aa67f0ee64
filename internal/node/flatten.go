package node

import (
	"github.com/roach88/cjsongen/internal/ir"
)

// ArrayMarker is the synthetic path segment naming an array's element.
const ArrayMarker = "#array_data#"

// Flatten walks a normalized struct and returns its nodes, children
// before parents, with the root struct last.
//
// Returns *NestedArrayError for arrays of arrays. A repeated qualified name
// is a *Fault: front-end validation rejects duplicate field names, so a
// duplicate here means the graph builder was misused.
func Flatten(s ir.Struct) (*Graph, error) {
	f := &flattener{names: NewNames()}
	root, err := f.object(s.Name, s.Fields)
	if err != nil {
		return nil, err
	}
	return &Graph{Root: root, Names: f.names, Nodes: f.nodes}, nil
}

type flattener struct {
	names *Names
	nodes []Node
}

func (f *flattener) intern(path string) (ID, error) {
	id, fresh := f.names.Intern(path)
	if !fresh {
		return NoID, faultf("Flatten", "encountered duplicate name '%s'", path)
	}
	return id, nil
}

func (f *flattener) object(path string, fields []ir.Field) (ID, error) {
	id, err := f.intern(path)
	if err != nil {
		return NoID, err
	}
	children := make([]ID, 0, len(fields))
	for _, field := range fields {
		child, err := f.value(path+"."+field.Name, field.Value)
		if err != nil {
			return NoID, err
		}
		children = append(children, child)
	}
	f.nodes = append(f.nodes, &StructNode{Key: id, Fields: children})
	return id, nil
}

func (f *flattener) value(path string, v ir.Value) (ID, error) {
	switch val := v.(type) {
	case ir.Primitive:
		id, err := f.intern(path)
		if err != nil {
			return NoID, err
		}
		f.nodes = append(f.nodes, &PrimitiveNode{Key: id, Kind: val.Kind})
		return id, nil
	case ir.Object:
		return f.object(path, val.Fields)
	case ir.Array:
		if _, nested := val.Elem.(ir.Array); nested {
			return NoID, &NestedArrayError{Path: path}
		}
		id, err := f.intern(path)
		if err != nil {
			return NoID, err
		}
		data, err := f.value(path+"."+ArrayMarker, val.Elem)
		if err != nil {
			return NoID, err
		}
		f.nodes = append(f.nodes, &ArrayNode{Key: id, Data: data})
		return id, nil
	default:
		return NoID, faultf("Flatten", "unknown value variant %T at '%s'", v, path)
	}
}
