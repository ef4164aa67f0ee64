package jsonmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

// Codec runs the codec model for one indexed struct.
type Codec struct {
	idx      *node.Index
	capacity int
}

// New returns a Codec over idx using the array capacity of opts.
func New(idx *node.Index, opts cgen.Options) *Codec {
	capacity := opts.InitialCapacity
	if capacity <= 0 {
		capacity = cgen.DefaultInitialCapacity
	}
	return &Codec{idx: idx, capacity: capacity}
}

// Index returns the index the codec walks.
func (c *Codec) Index() *node.Index { return c.idx }

// Encode is the package-level form of Codec.Encode with default options.
func Encode(idx *node.Index, id node.ID, v Value) (string, error) {
	return New(idx, cgen.DefaultOptions()).Encode(id, v)
}

// Decode is the package-level form of Codec.Decode with default options.
// Input after the decoded value is ignored, as in the generated parser.
func Decode(idx *node.Index, id node.ID, text string, l *Ledger) (Value, error) {
	v, _, err := New(idx, cgen.DefaultOptions()).Decode(id, text, l)
	return v, err
}

// Encode returns the text the generated serializer for node id writes
// for v. Strings are written between quotes without escaping and end at
// the first NUL byte, as printf's %s does.
func (c *Codec) Encode(id node.ID, v Value) (out string, err error) {
	defer node.Recover(&err)
	var b strings.Builder
	if err := c.encode(&b, c.idx.Get(id), v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (c *Codec) encode(b *strings.Builder, n node.Node, v Value) error {
	path := c.idx.Path(n.ID())
	switch nv := n.(type) {
	case *node.PrimitiveNode:
		return encodePrimitive(b, nv.Kind, path, v)
	case *node.StructNode:
		r, ok := v.(Record)
		if !ok {
			return &ShapeError{Path: path, Message: fmt.Sprintf("expected a record, got %T", v)}
		}
		if len(r) != len(nv.Fields) {
			return &ShapeError{Path: path, Message: fmt.Sprintf("expected %d members, got %d", len(nv.Fields), len(r))}
		}
		b.WriteByte('{')
		for i, f := range nv.Fields {
			key := c.idx.JSONKey(f)
			if r[i].Name != key {
				return &ShapeError{Path: path, Message: fmt.Sprintf("member %d is '%s', expected '%s'", i, r[i].Name, key)}
			}
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(cgen.JSONEscape(key))
			b.WriteString(`":`)
			if err := c.encode(b, c.idx.Get(f), r[i].Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil
	case *node.ArrayNode:
		l, ok := v.(List)
		if !ok {
			return &ShapeError{Path: path, Message: fmt.Sprintf("expected a list, got %T", v)}
		}
		data := c.idx.Get(nv.Data)
		b.WriteByte('[')
		for i, e := range l {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := c.encode(b, data, e); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	default:
		panic(&node.Fault{Op: "Encode", Message: fmt.Sprintf("unknown node variant %T", n)})
	}
}

func encodePrimitive(b *strings.Builder, k schema.PrimitiveKind, path string, v Value) error {
	switch k {
	case schema.KindStr:
		s, ok := v.(String)
		if !ok {
			return &ShapeError{Path: path, Message: fmt.Sprintf("expected a string, got %T", v)}
		}
		text := string(s)
		if i := strings.IndexByte(text, 0); i >= 0 {
			text = text[:i]
		}
		b.WriteByte('"')
		b.WriteString(text)
		b.WriteByte('"')
	case schema.KindInt:
		i, ok := v.(Int)
		if !ok {
			return &ShapeError{Path: path, Message: fmt.Sprintf("expected an int, got %T", v)}
		}
		b.WriteString(strconv.FormatInt(int64(i), 10))
	case schema.KindBool:
		x, ok := v.(Bool)
		if !ok {
			return &ShapeError{Path: path, Message: fmt.Sprintf("expected a bool, got %T", v)}
		}
		b.WriteString(strconv.FormatBool(bool(x)))
	default:
		panic(&node.Fault{Op: "Encode", Message: fmt.Sprintf("unknown primitive kind %v", k)})
	}
	return nil
}

// Destroy releases v the way the generated destructor for node id does,
// recording each free in l.
func (c *Codec) Destroy(id node.ID, v Value, l *Ledger) (err error) {
	defer node.Recover(&err)
	c.release(c.idx.Get(id), v, l)
	return nil
}

func (c *Codec) release(n node.Node, v Value, l *Ledger) {
	switch nv := n.(type) {
	case *node.PrimitiveNode:
		if nv.Kind == schema.KindStr && v != nil {
			l.free()
		}
	case *node.StructNode:
		r, _ := v.(Record)
		for i, f := range nv.Fields {
			if i < len(r) {
				c.release(c.idx.Get(f), r[i].Value, l)
			}
		}
	case *node.ArrayNode:
		list, _ := v.(List)
		if len(list) == 0 {
			// empty arrays are parsed to a NULL buffer
			return
		}
		data := c.idx.Get(nv.Data)
		if node.OwnsMemory(data) {
			for _, e := range list {
				c.release(data, e, l)
			}
		}
		l.free()
	default:
		panic(&node.Fault{Op: "Destroy", Message: fmt.Sprintf("unknown node variant %T", n)})
	}
}
