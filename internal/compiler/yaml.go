package compiler

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cjsongen/internal/schema"
)

// CompileYAML parses YAML schema source. The document is either a
// mapping from struct name to fields or a sequence of {name, values}
// entries. Duplicate keys are rejected.
func CompileYAML(filename string, src []byte) ([]schema.Struct, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error(), File: filename}
	}
	y := yamlCompiler{file: filename}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &CompileError{Field: "yaml", Message: "empty document", File: filename}
	}
	root := y.resolve(doc.Content[0])

	switch root.Kind {
	case yaml.MappingNode:
		return y.definitions(root)
	case yaml.SequenceNode:
		return y.entries(root)
	default:
		return nil, y.errorf(root, "", "expected a mapping of struct definitions or a list of {name, values}")
	}
}

type yamlCompiler struct {
	file string
}

func (y yamlCompiler) errorf(n *yaml.Node, field, format string, args ...any) *CompileError {
	return &CompileError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		File:    y.file,
		Line:    n.Line,
		Column:  n.Column,
	}
}

// resolve follows aliases.
func (y yamlCompiler) resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// pairs returns the key/value nodes of a mapping, rejecting duplicates
// and merge keys.
func (y yamlCompiler) pairs(m *yaml.Node, path string) ([][2]*yaml.Node, error) {
	seen := make(map[string]*yaml.Node, len(m.Content)/2)
	out := make([][2]*yaml.Node, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := y.resolve(m.Content[i]), y.resolve(m.Content[i+1])
		if k.Kind != yaml.ScalarNode || k.Tag == "!!merge" {
			return nil, y.errorf(k, path, "keys must be plain names")
		}
		if prev, ok := seen[k.Value]; ok {
			return nil, y.errorf(k, join(path, k.Value), "duplicate key (first defined at line %d)", prev.Line)
		}
		seen[k.Value] = k
		out = append(out, [2]*yaml.Node{k, v})
	}
	return out, nil
}

func (y yamlCompiler) definitions(m *yaml.Node) ([]schema.Struct, error) {
	pairs, err := y.pairs(m, "")
	if err != nil {
		return nil, err
	}
	defs := make([]schema.Struct, 0, len(pairs))
	for _, p := range pairs {
		fields, err := y.fields(p[1], p[0].Value)
		if err != nil {
			return nil, err
		}
		defs = append(defs, schema.Struct{Name: p[0].Value, Fields: fields})
	}
	return defs, nil
}

func (y yamlCompiler) entries(seq *yaml.Node) ([]schema.Struct, error) {
	defs := make([]schema.Struct, 0, len(seq.Content))
	for _, item := range seq.Content {
		item = y.resolve(item)
		if item.Kind != yaml.MappingNode {
			return nil, y.errorf(item, "", "expected a {name, values} entry")
		}
		pairs, err := y.pairs(item, "")
		if err != nil {
			return nil, err
		}
		var name *yaml.Node
		var values *yaml.Node
		for _, p := range pairs {
			switch p[0].Value {
			case "name":
				name = p[1]
			case "values":
				values = p[1]
			default:
				return nil, y.errorf(p[0], p[0].Value, "unknown entry key (expected name or values)")
			}
		}
		if name == nil || name.Kind != yaml.ScalarNode {
			return nil, y.errorf(item, "name", "entry needs a string name")
		}
		if values == nil {
			return nil, y.errorf(item, name.Value, "entry needs values")
		}
		fields, err := y.fields(values, name.Value)
		if err != nil {
			return nil, err
		}
		defs = append(defs, schema.Struct{Name: name.Value, Fields: fields})
	}
	return defs, nil
}

func (y yamlCompiler) fields(n *yaml.Node, path string) (schema.Fields, error) {
	if n.Kind != yaml.MappingNode {
		return nil, y.errorf(n, path, "expected a mapping of fields")
	}
	pairs, err := y.pairs(n, path)
	if err != nil {
		return nil, err
	}
	fields := make(schema.Fields, 0, len(pairs))
	for _, p := range pairs {
		v, err := y.value(p[1], join(path, p[0].Value))
		if err != nil {
			return nil, err
		}
		fields = append(fields, schema.Field{Name: p[0].Value, Value: v})
	}
	return fields, nil
}

func (y yamlCompiler) value(n *yaml.Node, path string) (schema.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag != "!!str" {
			return nil, y.errorf(n, path, "expected a type name, got %s", n.Tag)
		}
		k, err := schema.ParseKind(n.Value)
		if err != nil {
			return nil, y.errorf(n, path, "%s", err.Error())
		}
		return schema.Primitive{Kind: k}, nil
	case yaml.MappingNode:
		return y.fields(n, path)
	case yaml.SequenceNode:
		elems := make([]schema.Value, 0, len(n.Content))
		for _, c := range n.Content {
			e, err := y.value(y.resolve(c), path)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return schema.Array{Elems: elems}, nil
	default:
		return nil, y.errorf(n, path, "unsupported YAML node")
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
