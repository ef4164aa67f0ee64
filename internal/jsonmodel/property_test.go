package jsonmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/schema"
	"github.com/roach88/cjsongen/internal/testutil"
)

// deepSchema nests arrays of structs inside structs inside arrays.
func deepSchema() schema.Struct {
	return schema.NewStruct("catalog",
		schema.F("title", schema.Str()),
		schema.F("sections", schema.ArrayOf(schema.Object(
			schema.F("name", schema.Str()),
			schema.F("items", schema.ArrayOf(schema.Object(
				schema.F("id", schema.Int()),
				schema.F("tags", schema.ArrayOf(schema.Str())),
				schema.F("live", schema.Bool()),
			))),
			schema.F("meta", schema.Object(
				schema.F("rank", schema.Int()),
			)),
		))),
		schema.F("counts", schema.ArrayOf(schema.Int())),
	)
}

func TestProperty_RoundTrip(t *testing.T) {
	for _, s := range []schema.Struct{
		testutil.ItemSchema(),
		testutil.OrderSchema(),
		testutil.EmptySchema(),
		deepSchema(),
	} {
		t.Run(s.Name, func(t *testing.T) {
			x := testutil.MustIndex(t, s)
			opts := cgen.DefaultOptions()
			opts.InitialCapacity = 2
			c := New(x, opts)
			root := x.Root().Key
			r := testutil.Rand(42)

			for i := 0; i < 200; i++ {
				v, err := c.Random(root, r)
				require.NoError(t, err)
				text, err := c.Encode(root, v)
				require.NoError(t, err)

				var l Ledger
				got, consumed, err := c.Decode(root, text, &l)
				require.NoError(t, err, text)
				require.Equal(t, len(text), consumed)
				require.True(t, Equal(v, got), "%s\n%s", Describe(v), Describe(got))

				again, err := c.Encode(root, got)
				require.NoError(t, err)
				require.Equal(t, text, again)

				require.NoError(t, c.Destroy(root, got, &l))
				require.Zero(t, l.Live(), text)
				require.Empty(t, l.Destroyed)
			}
		})
	}
}

// Truncating a valid document anywhere must fail without leaking.
func TestProperty_TruncationNeverLeaks(t *testing.T) {
	x := testutil.MustIndex(t, deepSchema())
	c := New(x, cgen.DefaultOptions())
	root := x.Root().Key
	r := testutil.Rand(7)

	for i := 0; i < 20; i++ {
		v, err := c.Random(root, r)
		require.NoError(t, err)
		text, err := c.Encode(root, v)
		require.NoError(t, err)

		for cut := 0; cut < len(text); cut++ {
			var l Ledger
			_, _, err := c.Decode(root, text[:cut], &l)
			require.Error(t, err, text[:cut])
			require.Zero(t, l.Live(), text[:cut])
		}
	}
}

func TestRandom_CoversArrayBoundaries(t *testing.T) {
	x := testutil.MustIndex(t, testutil.ItemSchema())
	c := New(x, cgen.DefaultOptions())
	root := x.Root().Key
	r := testutil.Rand(1)

	sizes := map[string]bool{}
	for i := 0; i < 200; i++ {
		v, err := c.Random(root, r)
		require.NoError(t, err)
		tags, _ := v.(Record).Get("tags")
		n := len(tags.(List))
		switch {
		case n == 0:
			sizes["empty"] = true
		case n == 1:
			sizes["one"] = true
		case n > cgen.DefaultInitialCapacity:
			sizes["grown"] = true
		default:
			sizes["some"] = true
		}
	}
	assert.Len(t, sizes, 4)
}
