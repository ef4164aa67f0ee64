package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cjsongen/internal/cgen"
)

func TestParse(t *testing.T) {
	cfg, err := Parse("cjsongen.yaml", []byte(`
initial_capacity: 16
indent_width: 2
header_guard: SHOP_H
outputs: [types, de]
cache_db: .cjsongen/cache.db
`))
	require.NoError(t, err)
	assert.Equal(t, Config{
		InitialCapacity: 16,
		IndentWidth:     2,
		HeaderGuard:     "SHOP_H",
		Outputs:         []string{"types", "de"},
		CacheDB:         ".cjsongen/cache.db",
	}, cfg)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, cgen.Options{
		InitialCapacity: 16,
		IndentWidth:     2,
		Sections:        []cgen.Section{cgen.SectionTypes, cgen.SectionDe},
	}, opts)
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse("cjsongen.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	cfg, err = Parse("cjsongen.yaml", []byte("indent_width: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, cgen.DefaultInitialCapacity, cfg.InitialCapacity)
	assert.Equal(t, 8, cfg.IndentWidth)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "capacity: 3\n", "field capacity not found"},
		{"zero capacity", "initial_capacity: 0\n", "initial_capacity: must be at least 1"},
		{"wide indent", "indent_width: 40\n", "indent_width: must be at most 16"},
		{"bad output", "outputs: [types, c]\n", "outputs[1]: must be one of: types ser de"},
		{"repeated output", "outputs: [ser, ser]\n", "outputs: must not repeat"},
		{"bad guard", "header_guard: 1SHOP\n", "header_guard: must be a C identifier"},
		{"not yaml", "initial_capacity: [\n", "cjsongen.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("cjsongen.yaml", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, DefaultFile), true)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	_, err = Load(filepath.Join(dir, DefaultFile), false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("initial_capacity: 2\n"), 0o644))
	cfg, err = Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.InitialCapacity)
}

func TestApply(t *testing.T) {
	cfg, err := Defaults().Apply(Overrides{InitialCapacity: 4, Outputs: []string{"ser"}})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.InitialCapacity)
	assert.Equal(t, cgen.DefaultIndentWidth, cfg.IndentWidth)
	assert.Equal(t, []string{"ser"}, cfg.Outputs)

	_, err = Defaults().Apply(Overrides{InitialCapacity: -1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"initial_capacity: must be at least 1"}, ve.Messages)
}
