package compiler

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cjsongen/internal/schema"
)

func shopSchemas() []schema.Struct {
	return []schema.Struct{
		schema.NewStruct("item",
			schema.F("id", schema.Int()),
			schema.F("tags", schema.ArrayOf(schema.Str())),
		),
		schema.NewStruct("order",
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
		),
	}
}

func TestCompileFile_AllFormatsAgree(t *testing.T) {
	for _, name := range []string{"shop.cue", "shop.yaml", "shop.json"} {
		t.Run(name, func(t *testing.T) {
			defs, err := CompileFile(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, shopSchemas(), defs)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.cue", FormatCUE},
		{"dir/a.YAML", FormatYAML},
		{"a.yml", FormatYAML},
		{"a.json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FormatFromPath("a.toml")
	assert.Error(t, err)
}

func TestCompile_Validates(t *testing.T) {
	_, err := Compile(FormatYAML, "bad.yaml", []byte("item:\n  \"a.b\": int\n"))
	var ve *schema.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "item.a.b", ve.Path)
}

func TestCompile_NoDefinitions(t *testing.T) {
	_, err := Compile(FormatJSON, "empty.json", []byte(`{}`))
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Message, "no struct definitions")
}

func TestCompile_DuplicateStructAcrossEntries(t *testing.T) {
	_, err := Compile(FormatYAML, "dup.yaml", []byte("- name: a\n  values: {}\n- name: a\n  values: {}\n"))
	var ve *schema.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "duplicate struct")
}

func TestCompileError_Format(t *testing.T) {
	e := &CompileError{Field: "item.id", Message: "bad", File: "s.yaml", Line: 3, Column: 5}
	assert.Equal(t, "s.yaml:3:5: item.id: bad", e.Error())

	e = &CompileError{Field: "item", Message: "bad"}
	assert.Equal(t, "item: bad", e.Error())

	e = &CompileError{Message: "bad"}
	assert.Equal(t, "bad", e.Error())
}
