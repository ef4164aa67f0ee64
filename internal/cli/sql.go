package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/pipeline"
	"github.com/roach88/cjsongen/internal/sqlgen"
)

// SQLResult is the JSON payload of the sql command.
type SQLResult struct {
	Tables map[string]string `json:"tables"` // struct name to DDL
	DDL    string            `json:"ddl"`
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <schema-file>",
		Short: "Print SQLite tables for the schema",
		Long: `Print CREATE TABLE statements that store values of every top-level
struct: one table per struct node and one link table per array.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSQL(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	defs, err := loadSchema(formatter, path)
	if err != nil {
		return err
	}

	// Only typedefs are generated; CompileAll is used for its cross-struct
	// name checks, which cover table names.
	p, err := pipeline.New(
		cgen.Options{Sections: []cgen.Section{cgen.SectionTypes}},
		pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		return fail(formatter, err)
	}
	results, err := p.CompileAll(cmd.Context(), path, defs)
	if err != nil {
		return fail(formatter, err)
	}

	tables := make(map[string]string, len(results))
	parts := make([]string, 0, len(results))
	for _, r := range results {
		ddl, err := sqlgen.Generate(r.Index)
		if err != nil {
			return fail(formatter, fmt.Errorf("struct %q: %w", r.Name, err))
		}
		tables[r.Name] = ddl
		parts = append(parts, ddl)
	}
	ddl := strings.Join(parts, "\n")

	if formatter.Format == "json" {
		return formatter.Success(SQLResult{Tables: tables, DDL: ddl})
	}
	_, err = io.WriteString(formatter.Writer, ddl)
	return err
}
