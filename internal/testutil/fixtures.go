package testutil

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cjsongen/internal/ir"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

// ItemSchema is the item struct: an id and a list of string tags.
func ItemSchema() schema.Struct {
	return schema.NewStruct("item",
		schema.F("id", schema.Int()),
		schema.F("tags", schema.ArrayOf(schema.Str())),
	)
}

// OrderSchema exercises every node variant: a nested struct, an array
// of structs and an array of primitives.
func OrderSchema() schema.Struct {
	return schema.NewStruct("order",
		schema.F("id", schema.Str()),
		schema.F("customer", schema.Object(
			schema.F("name", schema.Str()),
			schema.F("vip", schema.Bool()),
		)),
		schema.F("lines", schema.ArrayOf(schema.Object(
			schema.F("sku", schema.Str()),
			schema.F("qty", schema.Int()),
		))),
		schema.F("flags", schema.ArrayOf(schema.Bool())),
	)
}

// EmptySchema has no fields.
func EmptySchema() schema.Struct {
	return schema.NewStruct("empty")
}

// MustIndex normalizes, flattens and indexes s.
func MustIndex(t testing.TB, s schema.Struct) *node.Index {
	t.Helper()
	m, err := ir.Normalize(s)
	require.NoError(t, err)
	x, err := node.FromStruct(m)
	require.NoError(t, err)
	return x
}

// Rand returns a deterministic source so property tests replay the same
// cases on every run.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
