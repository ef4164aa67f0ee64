package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cjsongen/internal/pipeline"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Structs []string `json:"structs"`
	Nodes   int      `json:"nodes"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-file>",
		Short: "Validate a schema without generating code",
		Long: `Parse, normalize, flatten and index every struct of a schema without
generating output. Faster than gen for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	defs, err := loadSchema(formatter, path)
	if err != nil {
		return err
	}

	result := ValidationResult{Valid: true, Structs: make([]string, 0, len(defs))}
	for _, s := range defs {
		formatter.VerboseLog("Validating struct: %s", s.Name)
		idx, _, err := pipeline.Index(s)
		if err != nil {
			return fail(formatter, fmt.Errorf("struct %q: %w", s.Name, err))
		}
		result.Structs = append(result.Structs, s.Name)
		result.Nodes += len(idx.Nodes())
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Schema valid: %d struct(s), %d node(s)\n", len(result.Structs), result.Nodes)
	return nil
}
