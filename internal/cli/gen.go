package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/config"
	"github.com/roach88/cjsongen/internal/highlight"
	"github.com/roach88/cjsongen/internal/pipeline"
	"github.com/roach88/cjsongen/internal/store"
)

// GenOptions holds flags for the gen command.
type GenOptions struct {
	*RootOptions
	Output   string   // output directory; stdout when empty
	Only     []string // sections to emit
	Capacity int
	Indent   int
	Config   string
	CacheDB  string
	Color    string
	Guard    string
}

// GeneratedFile describes the generated pair for one struct.
type GeneratedFile struct {
	Struct     string `json:"struct"`
	Key        string `json:"key"`
	Cached     bool   `json:"cached"`
	HeaderPath string `json:"header_path,omitempty"`
	SourcePath string `json:"source_path,omitempty"`
	Header     string `json:"header,omitempty"`
	Source     string `json:"source,omitempty"`
}

// GenResult is the JSON payload of the gen command.
type GenResult struct {
	Files []GeneratedFile `json:"files"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen <schema-file>",
		Short: "Generate C typedefs, serializers and parsers",
		Long: `Generate a header and a source file per top-level struct.

The schema format is chosen by extension (.cue, .yaml, .yml, .json).
Settings are read from cjsongen.yaml in the working directory when it
exists, or from --config. Flags override file settings.

Examples:
  cjsongen gen shop.cue
  cjsongen gen shop.cue -o out --only types,ser
  cjsongen gen shop.cue --capacity 16 --cache-db .cjsongen.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory (default stdout)")
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "sections to generate (types,ser,de)")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "initial array capacity of generated parsers")
	cmd.Flags().IntVar(&opts.Indent, "indent", 0, "spaces per indentation level")
	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (default "+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&opts.CacheDB, "cache-db", "", "SQLite artifact cache")
	cmd.Flags().StringVar(&opts.Color, "color", string(highlight.ColorAuto), "highlight stdout output (auto|always|never)")
	cmd.Flags().StringVar(&opts.Guard, "guard", "", "header include guard (single-struct schemas)")

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func (o *GenOptions) loadConfig() (config.Config, error) {
	path, optional := o.Config, false
	if path == "" {
		path, optional = config.DefaultFile, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.Apply(config.Overrides{
		InitialCapacity: o.Capacity,
		IndentWidth:     o.Indent,
		HeaderGuard:     o.Guard,
		Outputs:         o.Only,
		CacheDB:         o.CacheDB,
	})
}

func runGen(opts *GenOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	genOpts, err := cfg.Options()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	mode, err := highlight.ParseColorMode(opts.Color)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	defs, err := loadSchema(formatter, path)
	if err != nil {
		return err
	}
	if cfg.HeaderGuard != "" && len(defs) != 1 {
		return formatter.Fail(ExitCommandError, ErrCodeConfig,
			fmt.Errorf("header guard %q needs a single-struct schema, %s has %d", cfg.HeaderGuard, path, len(defs)))
	}

	pipeOpts := []pipeline.Option{pipeline.WithLogger(newLogger(opts.RootOptions, cmd))}
	if cfg.CacheDB != "" {
		st, err := store.Open(cfg.CacheDB)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeCache, err)
		}
		defer st.Close()
		pipeOpts = append(pipeOpts, pipeline.WithStore(st))
		formatter.VerboseLog("Using artifact cache %s", cfg.CacheDB)
	}
	p, err := pipeline.New(genOpts, pipeOpts...)
	if err != nil {
		return fail(formatter, err)
	}

	results, err := p.CompileAll(cmd.Context(), path, defs)
	if err != nil {
		return fail(formatter, err)
	}

	files := make([]GeneratedFile, 0, len(results))
	for _, r := range results {
		file, err := opts.render(r, cfg.HeaderGuard)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		formatter.VerboseLog("Generated %s (key %s, cached %t)", r.Name, r.Key, r.Cached)
		files = append(files, file)
	}

	if formatter.Format == "json" {
		return formatter.Success(GenResult{Files: files})
	}
	if opts.Output == "" {
		for _, file := range files {
			for _, text := range []string{file.Header, file.Source} {
				if text == "" {
					continue
				}
				if err := highlight.Write(formatter.Writer, text, mode); err != nil {
					return err
				}
			}
		}
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Generated %d struct(s)\n", len(files))
	for _, file := range files {
		suffix := ""
		if file.Cached {
			suffix = " (cached)"
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s, %s%s\n", file.Struct, file.HeaderPath, file.SourcePath, suffix)
	}
	return nil
}

// render assembles the header and source for r and writes them when an
// output directory is set.
func (o *GenOptions) render(r pipeline.Result, guard string) (GeneratedFile, error) {
	base := r.Index.FuncName(r.Index.Root().Key)
	if guard == "" {
		guard = cgen.HeaderGuard(r.Name)
	}
	file := GeneratedFile{
		Struct: r.Name,
		Key:    r.Key,
		Cached: r.Cached,
		Header: r.Unit.Header(guard),
		Source: r.Unit.Source(base + ".h"),
	}
	if o.Output == "" {
		return file, nil
	}

	if err := os.MkdirAll(o.Output, 0o755); err != nil {
		return GeneratedFile{}, fmt.Errorf("create output directory: %w", err)
	}
	file.HeaderPath = filepath.Join(o.Output, base+".h")
	file.SourcePath = filepath.Join(o.Output, base+".c")
	if err := os.WriteFile(file.HeaderPath, []byte(file.Header), 0o644); err != nil {
		return GeneratedFile{}, fmt.Errorf("write header: %w", err)
	}
	if err := os.WriteFile(file.SourcePath, []byte(file.Source), 0o644); err != nil {
		return GeneratedFile{}, fmt.Errorf("write source: %w", err)
	}
	file.Header, file.Source = "", ""
	return file, nil
}
