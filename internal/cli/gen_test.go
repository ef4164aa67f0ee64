package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGen(format string) *cobra.Command {
	return NewGenCommand(&RootOptions{Format: format})
}

func TestGen_OutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, newGen("text"), shopSchema, "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Generated 2 struct(s)")
	assert.Contains(t, out, "item: "+filepath.Join(dir, "item.h")+", "+filepath.Join(dir, "item.c"))
	assert.Contains(t, out, "order: "+filepath.Join(dir, "order.h"))

	header, err := os.ReadFile(filepath.Join(dir, "item.h"))
	require.NoError(t, err)
	wantHeader, err := os.ReadFile("../cgen/testdata/golden/item_header.golden")
	require.NoError(t, err)
	assert.Equal(t, string(wantHeader), string(header))

	source, err := os.ReadFile(filepath.Join(dir, "item.c"))
	require.NoError(t, err)
	wantSource, err := os.ReadFile("../cgen/testdata/golden/item_source.golden")
	require.NoError(t, err)
	assert.Equal(t, string(wantSource), string(source))

	_, err = os.Stat(filepath.Join(dir, "order.c"))
	assert.NoError(t, err)
}

func TestGen_StdoutOnlyTypes(t *testing.T) {
	out, err := execute(t, newGen("text"), shopSchema, "--only", "types", "--color", "never")
	require.NoError(t, err)

	assert.Contains(t, out, "#ifndef ITEM_H")
	assert.Contains(t, out, "} Item;")
	assert.Contains(t, out, "} OrderCustomer;")
	assert.NotContains(t, out, "_to_json")
	assert.NotContains(t, out, "de.h")
	assert.NotContains(t, out, "\x1b[")
}

func TestGen_ColorAlways(t *testing.T) {
	out, err := execute(t, newGen("text"), shopSchema, "--only", "types", "--color", "always")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestGen_InvalidColor(t *testing.T) {
	out, err := execute(t, newGen("text"), shopSchema, "--color", "sometimes")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E006]")
}

type genResponse struct {
	Status string    `json:"status"`
	Data   GenResult `json:"data"`
	Error  *CLIError `json:"error"`
}

func TestGen_JSON(t *testing.T) {
	out, err := execute(t, newGen("json"), shopSchema)
	require.NoError(t, err)

	var resp genResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Files, 2)

	item := resp.Data.Files[0]
	assert.Equal(t, "item", item.Struct)
	assert.False(t, item.Cached)
	assert.NotEmpty(t, item.Key)
	assert.True(t, strings.HasPrefix(item.Header, "#ifndef ITEM_H\n"))
	assert.True(t, strings.HasPrefix(item.Source, "#include \"item.h\"\n"))
	assert.Empty(t, item.HeaderPath)
	assert.Equal(t, "order", resp.Data.Files[1].Struct)
}

func TestGen_CacheDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cache.db")

	run := func() GenResult {
		out, err := execute(t, newGen("json"), shopSchema, "--cache-db", db)
		require.NoError(t, err)
		var resp genResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		return resp.Data
	}

	cold := run()
	warm := run()
	require.Len(t, warm.Files, 2)
	for i := range warm.Files {
		assert.False(t, cold.Files[i].Cached)
		assert.True(t, warm.Files[i].Cached)
		assert.Equal(t, cold.Files[i].Key, warm.Files[i].Key)
		assert.Equal(t, cold.Files[i].Header, warm.Files[i].Header)
		assert.Equal(t, cold.Files[i].Source, warm.Files[i].Source)
	}
}

func TestGen_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "cjsongen.yaml", "indent_width: 2\noutputs: [types]\n")

	out, err := execute(t, newGen("text"), shopSchema, "--config", cfg, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "typedef struct {\n  int64_t id;\n")
	assert.NotContains(t, out, "_to_json")
}

func TestGen_FlagsOverrideConfig(t *testing.T) {
	cfg := writeFile(t, "cjsongen.yaml", "indent_width: 2\n")

	out, err := execute(t, newGen("text"), shopSchema, "--config", cfg, "--indent", "3", "--only", "types", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "typedef struct {\n   int64_t id;\n")
}

func TestGen_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"capacity", []string{"--capacity", "-1"}},
		{"section", []string{"--only", "types,json"}},
		{"missing config", []string{"--config", "testdata/missing.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, newGen("text"), append([]string{shopSchema}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E006]")
		})
	}
}

func TestGen_Guard(t *testing.T) {
	schemaPath := writeFile(t, "point.yaml", "point:\n  x: int\n  y: int\n")

	out, err := execute(t, newGen("text"), schemaPath, "--guard", "MY_POINT_H", "--color", "never")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#ifndef MY_POINT_H\n#define MY_POINT_H\n"))

	out, err = execute(t, newGen("text"), shopSchema, "--guard", "SHOP_H")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "needs a single-struct schema")
}

func TestGen_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		code   string
	}{
		{"unknown type", "item:\n  id: float\n", ErrCodeSchema},
		{"nested array", "item:\n  m: [[int]]\n", ErrCodeNormalize},
		{"two elements", "item:\n  m: [int, str]\n", ErrCodeNormalize},
		{"member collision", "item:\n  a-b: int\n  a_b: int\n", ErrCodeCollision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "schema.yaml", tt.schema)

			out, err := execute(t, newGen("json"), path)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestGen_SchemaNotFound(t *testing.T) {
	out, err := execute(t, newGen("text"), "testdata/missing.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
	assert.Contains(t, out, "schema file not found")
}
