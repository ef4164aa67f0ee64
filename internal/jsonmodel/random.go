package jsonmodel

import (
	"fmt"
	"math/rand/v2"

	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

// randomAlphabet excludes '"', '\\' and control characters: generated
// serializers copy strings verbatim, so only these round-trip.
const randomAlphabet = "abcdefghijklmnopqrstuvwxyz ABCXYZ0123456789_-.:,{}[]"

// Random builds an arbitrary value for node id. Arrays get lengths 0, 1,
// a few, or enough to force capacity doubling.
func (c *Codec) Random(id node.ID, r *rand.Rand) (v Value, err error) {
	defer node.Recover(&err)
	return c.random(c.idx.Get(id), r), nil
}

func (c *Codec) random(n node.Node, r *rand.Rand) Value {
	switch v := n.(type) {
	case *node.PrimitiveNode:
		return randomPrimitive(v.Kind, r)
	case *node.StructNode:
		out := make(Record, len(v.Fields))
		for i, f := range v.Fields {
			out[i] = Member{Name: c.idx.JSONKey(f), Value: c.random(c.idx.Get(f), r)}
		}
		return out
	case *node.ArrayNode:
		var size int
		switch r.IntN(4) {
		case 0:
			size = 0
		case 1:
			size = 1
		case 2:
			size = 2 + r.IntN(c.capacity)
		default:
			size = c.capacity*2 + 1 + r.IntN(c.capacity)
		}
		if size == 0 {
			return List(nil)
		}
		data := c.idx.Get(v.Data)
		out := make(List, size)
		for i := range out {
			out[i] = c.random(data, r)
		}
		return out
	default:
		panic(&node.Fault{Op: "Random", Message: fmt.Sprintf("unknown node variant %T", n)})
	}
}

func randomPrimitive(k schema.PrimitiveKind, r *rand.Rand) Value {
	switch k {
	case schema.KindStr:
		b := make([]byte, r.IntN(8))
		for i := range b {
			b[i] = randomAlphabet[r.IntN(len(randomAlphabet))]
		}
		return String(b)
	case schema.KindInt:
		switch r.IntN(4) {
		case 0:
			return Int(0)
		case 1:
			return Int(r.Int64())
		case 2:
			return Int(-r.Int64())
		default:
			return Int(r.IntN(1000))
		}
	case schema.KindBool:
		return Bool(r.IntN(2) == 1)
	default:
		panic(&node.Fault{Op: "Random", Message: fmt.Sprintf("unknown primitive kind %v", k)})
	}
}
