package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cjsongen/internal/compiler"
	"github.com/roach88/cjsongen/internal/config"
	"github.com/roach88/cjsongen/internal/highlight"
	"github.com/roach88/cjsongen/internal/ir"
	"github.com/roach88/cjsongen/internal/jsonmodel"
	"github.com/roach88/cjsongen/internal/logging"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/pipeline"
	"github.com/roach88/cjsongen/internal/schema"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeSchema      = "E002" // Schema syntax or validation error
	ErrCodeNormalize   = "E003" // Array element count or nested array
	ErrCodeCollision   = "E004" // Two names derive the same C identifier
	ErrCodeNotFound    = "E005" // Path or struct not found
	ErrCodeConfig      = "E006" // Invalid configuration or flags
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeBadInput    = "E008" // JSON text rejected by a parser
	ErrCodeCache       = "E009" // Artifact cache unavailable
	ErrCodeTestFailed  = "E010" // One or more scenarios failed
	ErrCodeInternal    = pipeline.CodeInternal
)

// errorCode maps err to the code reported for it.
func errorCode(err error) string {
	var (
		compileErr   *compiler.CompileError
		validateErr  *schema.ValidationError
		normalizeErr *ir.NormalizeError
		nestedErr    *node.NestedArrayError
		collisionErr *node.CollisionError
		configErr    *config.ValidationError
		decodeErr    *jsonmodel.DecodeError
		internalErr  *pipeline.InternalError
		fault        *node.Fault
	)
	switch {
	case errors.As(err, &internalErr), errors.As(err, &fault):
		return ErrCodeInternal
	case errors.As(err, &compileErr), errors.As(err, &validateErr):
		return ErrCodeSchema
	case errors.As(err, &normalizeErr), errors.As(err, &nestedErr):
		return ErrCodeNormalize
	case errors.As(err, &collisionErr):
		return ErrCodeCollision
	case errors.As(err, &configErr):
		return ErrCodeConfig
	case errors.As(err, &decodeErr):
		return ErrCodeBadInput
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	default:
		return ErrCodeGeneric
	}
}

// exitCode is ExitFailure for everything the schema or input is
// responsible for and ExitCommandError otherwise, internal faults included.
func exitCode(code string) int {
	switch code {
	case ErrCodeNotFound, ErrCodeConfig, ErrCodeWriteFailed, ErrCodeCache, ErrCodeGeneric, ErrCodeInternal:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// fail reports err through f with its classified code.
func fail(f *OutputFormatter, err error) error {
	code := errorCode(err)
	return f.Fail(exitCode(code), code, err)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// newLogger writes pipeline logs to stderr: debug when verbose, warnings
// otherwise, JSON lines when the output format is JSON.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return logging.New(cmd.ErrOrStderr(), logging.Options{
		Level: level,
		JSON:  opts.Format == "json",
		Color: highlight.ColorAuto.Enabled(cmd.ErrOrStderr()),
	})
}

// loadSchema compiles a schema file through the front-end chosen by its
// extension.
func loadSchema(f *OutputFormatter, path string) ([]schema.Struct, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fail(f, fmt.Errorf("schema file not found: %s: %w", path, err))
	}
	defs, err := compiler.CompileFile(path)
	if err != nil {
		return nil, fail(f, err)
	}
	f.VerboseLog("Loaded %d struct(s) from %s", len(defs), path)
	return defs, nil
}

// findStruct picks the definition named name.
func findStruct(defs []schema.Struct, name string) (schema.Struct, error) {
	names := make([]string, len(defs))
	for i, d := range defs {
		if d.Name == name {
			return d, nil
		}
		names[i] = d.Name
	}
	return schema.Struct{}, fmt.Errorf("struct %q not found (have %v): %w", name, names, fs.ErrNotExist)
}
