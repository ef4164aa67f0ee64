package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/roach88/cjsongen/internal/schema"
)

// CompileJSON parses JSON schema source with the same shapes as
// CompileYAML. Object member order is significant, so the source is read
// as a token stream rather than unmarshalled into maps.
func CompileJSON(filename string, src []byte) ([]schema.Struct, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	c := &jsonCompiler{file: filename, dec: dec}

	tok, err := c.token()
	if err != nil {
		return nil, err
	}
	var defs []schema.Struct
	switch tok {
	case json.Delim('{'):
		defs, err = c.definitions()
	case json.Delim('['):
		defs, err = c.entries()
	default:
		return nil, c.errorf("", "expected an object of struct definitions or a list of {name, values}")
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, c.errorf("", "unexpected data after the schema")
	}
	return defs, nil
}

type jsonCompiler struct {
	file string
	dec  *json.Decoder
}

func (c *jsonCompiler) errorf(field, format string, args ...any) *CompileError {
	return &CompileError{Field: field, Message: fmt.Sprintf(format, args...), File: c.file}
}

func (c *jsonCompiler) token() (json.Token, error) {
	tok, err := c.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, c.errorf("json", "unexpected end of input")
	}
	if err != nil {
		return nil, c.errorf("json", "%s", err.Error())
	}
	return tok, nil
}

// members reads "key": value pairs up to the closing brace of an object
// whose opening brace was consumed, calling fn for each value.
func (c *jsonCompiler) members(path string, fn func(key string) error) error {
	seen := map[string]bool{}
	for c.dec.More() {
		tok, err := c.token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return c.errorf(path, "expected an object key")
		}
		if seen[key] {
			return c.errorf(join(path, key), "duplicate key")
		}
		seen[key] = true
		if err := fn(key); err != nil {
			return err
		}
	}
	_, err := c.token()
	return err
}

func (c *jsonCompiler) definitions() ([]schema.Struct, error) {
	var defs []schema.Struct
	err := c.members("", func(name string) error {
		fields, err := c.object(name)
		if err != nil {
			return err
		}
		defs = append(defs, schema.Struct{Name: name, Fields: fields})
		return nil
	})
	return defs, err
}

func (c *jsonCompiler) entries() ([]schema.Struct, error) {
	var defs []schema.Struct
	for c.dec.More() {
		tok, err := c.token()
		if err != nil {
			return nil, err
		}
		if tok != json.Delim('{') {
			return nil, c.errorf("", "expected a {name, values} entry")
		}
		var def schema.Struct
		var hasName, hasValues bool
		err = c.members("", func(key string) error {
			switch key {
			case "name":
				tok, err := c.token()
				if err != nil {
					return err
				}
				name, ok := tok.(string)
				if !ok {
					return c.errorf("name", "entry needs a string name")
				}
				def.Name, hasName = name, true
			case "values":
				fields, err := c.object(def.Name)
				if err != nil {
					return err
				}
				def.Fields, hasValues = fields, true
			default:
				return c.errorf(key, "unknown entry key (expected name or values)")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !hasName {
			return nil, c.errorf("name", "entry needs a string name")
		}
		if !hasValues {
			return nil, c.errorf(def.Name, "entry needs values")
		}
		defs = append(defs, def)
	}
	if _, err := c.token(); err != nil {
		return nil, err
	}
	return defs, nil
}

// object reads a JSON object of fields, including its opening brace.
func (c *jsonCompiler) object(path string) (schema.Fields, error) {
	tok, err := c.token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, c.errorf(path, "expected an object of fields")
	}
	return c.fields(path)
}

func (c *jsonCompiler) fields(path string) (schema.Fields, error) {
	fields := schema.Fields{}
	err := c.members(path, func(name string) error {
		v, err := c.value(join(path, name))
		if err != nil {
			return err
		}
		fields = append(fields, schema.Field{Name: name, Value: v})
		return nil
	})
	return fields, err
}

func (c *jsonCompiler) value(path string) (schema.Value, error) {
	tok, err := c.token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case string:
		k, err := schema.ParseKind(v)
		if err != nil {
			return nil, c.errorf(path, "%s", err.Error())
		}
		return schema.Primitive{Kind: k}, nil
	case json.Delim:
		switch v {
		case '{':
			return c.fields(path)
		case '[':
			var elems []schema.Value
			for c.dec.More() {
				e, err := c.value(path)
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
			}
			if _, err := c.token(); err != nil {
				return nil, err
			}
			return schema.Array{Elems: elems}, nil
		}
	}
	return nil, c.errorf(path, "expected a type name, got %v", tok)
}
