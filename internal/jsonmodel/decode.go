package jsonmodel

import (
	"fmt"

	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

// Decode parses text as a value of node id the way the generated
// *_from_json function does and returns the value and the number of
// bytes consumed. On failure the returned error is a *DecodeError and
// every allocation recorded in l has been released.
func (c *Codec) Decode(id node.ID, text string, l *Ledger) (v Value, consumed int, err error) {
	defer node.Recover(&err)
	d := &decoder{Codec: c, input: text, ledger: l}
	switch n := c.idx.Get(id).(type) {
	case *node.StructNode:
		v, err = d.structValue(n)
	case *node.ArrayNode:
		v, err = d.arrayValue(n)
	default:
		return nil, 0, &node.Fault{Op: "Decode", Message: fmt.Sprintf("no deserializer for %s", c.idx.Path(id))}
	}
	if err != nil {
		return nil, d.pos, err
	}
	return v, d.pos, nil
}

type decoder struct {
	*Codec
	input  string
	pos    int
	ledger *Ledger
}

func (d *decoder) value(n node.Node, parsing string) (Value, error) {
	switch v := n.(type) {
	case *node.StructNode:
		return d.structValue(v)
	case *node.ArrayNode:
		return d.arrayValue(v)
	case *node.PrimitiveNode:
		switch v.Kind {
		case schema.KindStr:
			return d.readStr(parsing)
		case schema.KindInt:
			return d.readInt(parsing)
		case schema.KindBool:
			return d.readBool(parsing)
		}
	}
	panic(&node.Fault{Op: "Decode", Message: fmt.Sprintf("no deserializer for %T", n)})
}

// destroy runs a destructor on behalf of a parser and records it.
func (d *decoder) destroy(n node.Node, v Value) {
	d.ledger.destroyed(d.idx.Path(n.ID()))
	d.release(n, v, d.ledger)
}

func (d *decoder) structValue(s *node.StructNode) (Value, error) {
	path := d.idx.Path(s.Key)
	if err := d.expectChar('{', path); err != nil {
		return nil, err
	}
	d.pos++

	fields := make([]node.Node, len(s.Fields))
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = d.idx.Get(f)
		keys[i] = d.idx.JSONKey(f)
	}
	staged := make([]Value, len(s.Fields))
	found := make([]bool, len(s.Fields))
	var key *String

	drop := func(err error) (Value, error) {
		if key != nil {
			d.ledger.free()
		}
		for i, f := range fields {
			if found[i] && node.OwnsMemory(f) {
				d.destroy(f, staged[i])
			}
		}
		return nil, err
	}

	if err := d.expectNotDone(path); err != nil {
		return drop(err)
	}
	done := d.input[d.pos] == '}'
	if done {
		d.pos++
	}
	for !done {
		k, err := d.readStr(path)
		if err != nil {
			return drop(err)
		}
		key = &k
		if err := d.expectChar(':', path); err != nil {
			return drop(err)
		}
		d.pos++

		match := -1
		for i := range keys {
			if keys[i] == string(k) {
				match = i
				break
			}
		}
		if match >= 0 {
			f := fields[match]
			if found[match] && node.OwnsMemory(f) {
				d.destroy(f, staged[match])
				staged[match] = nil
			}
			var v Value
			v, err = d.value(f, d.idx.Path(f.ID()))
			found[match] = err == nil
			if err == nil {
				staged[match] = v
			}
		} else {
			err = d.fail("got invalid key '%s'", string(k))
		}
		d.ledger.free()
		key = nil
		if err != nil {
			return drop(err)
		}

		if err := d.expectNotDone(path); err != nil {
			return drop(err)
		}
		if d.input[d.pos] == ',' {
			d.pos++
			continue
		}
		if err := d.expectChar('}', path); err != nil {
			return drop(err)
		}
		d.pos++
		done = true
	}

	for i := range found {
		if !found[i] {
			return drop(d.fail("missing fields"))
		}
	}

	out := make(Record, len(s.Fields))
	for i := range s.Fields {
		out[i] = Member{Name: keys[i], Value: staged[i]}
	}
	return out, nil
}

func (d *decoder) arrayValue(a *node.ArrayNode) (Value, error) {
	path := d.idx.Path(a.Key)
	data := d.idx.Get(a.Data)
	parsing := path
	if _, ok := data.(*node.PrimitiveNode); !ok {
		parsing = d.idx.Path(data.ID())
	}

	if err := d.expectChar('[', path); err != nil {
		return nil, err
	}
	d.pos++
	if err := d.expectNotDone(path); err != nil {
		return nil, err
	}
	if d.input[d.pos] == ']' {
		d.pos++
		return List(nil), nil
	}

	allocated := d.capacity
	list := make(List, 0, allocated)
	d.ledger.alloc()

	drop := func(err error) (Value, error) {
		d.ledger.destroyed(path)
		d.release(a, list, d.ledger)
		if len(list) == 0 {
			// destroy_array frees the buffer even with no elements
			d.ledger.free()
		}
		return nil, err
	}

	for {
		if len(list) >= allocated {
			allocated *= 2
			d.ledger.grow()
		}
		v, err := d.value(data, parsing)
		if err != nil {
			return drop(err)
		}
		list = append(list, v)
		if err := d.expectNotDone(path); err != nil {
			return drop(err)
		}
		if d.input[d.pos] == ']' {
			d.pos++
			break
		}
		if err := d.expectChar(',', path); err != nil {
			return drop(err)
		}
		d.pos++
	}
	return list, nil
}
