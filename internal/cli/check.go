package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/jsonmodel"
	"github.com/roach88/cjsongen/internal/pipeline"
	"github.com/roach88/cjsongen/internal/schema"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Root     string // struct to parse as
	Input    string // file holding the JSON text; "-" reads stdin
	Capacity int
}

// CheckResult is what the generated parser and serializer did with the
// input.
type CheckResult struct {
	Struct    string   `json:"struct"`
	Consumed  int      `json:"consumed"`
	Output    string   `json:"output"`
	Allocs    int      `json:"allocs"`
	Frees     int      `json:"frees"`
	Grows     int      `json:"grows"`
	Destroyed []string `json:"destroyed,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <schema-file> [json]",
		Short: "Parse JSON text the way the generated code would",
		Long: `Parse JSON text with the model of the generated parser, serialize the
result back and release it, reporting the heap traffic.

Exit codes:
  0 - Input accepted
  1 - Input rejected (the parser's error message is reported)
  2 - Command error

Examples:
  cjsongen check shop.cue --root item '{"id":1,"tags":[]}'
  cjsongen check shop.cue --root order --input order.json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", "", "struct to parse (default the only struct)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "read JSON text from a file (- for stdin)")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", cgen.DefaultInitialCapacity, "initial array capacity")

	return cmd
}

func (o *CheckOptions) text(args []string, stdin io.Reader) (string, error) {
	switch {
	case len(args) == 2 && o.Input != "":
		return "", errors.New("pass JSON text either as an argument or with --input, not both")
	case len(args) == 2:
		return args[1], nil
	case o.Input == "-":
		b, err := io.ReadAll(stdin)
		return string(b), err
	case o.Input != "":
		b, err := os.ReadFile(o.Input)
		return string(b), err
	default:
		return "", errors.New("no JSON text given")
	}
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	text, err := opts.text(args, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	if opts.Capacity < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, fmt.Errorf("capacity must be at least 1, got %d", opts.Capacity))
	}

	defs, err := loadSchema(formatter, args[0])
	if err != nil {
		return err
	}
	var s schema.Struct
	switch {
	case opts.Root != "":
		s, err = findStruct(defs, opts.Root)
		if err != nil {
			return fail(formatter, err)
		}
	case len(defs) == 1:
		s = defs[0]
	default:
		return formatter.Fail(ExitCommandError, ErrCodeConfig,
			fmt.Errorf("%s defines %d structs, choose one with --root", args[0], len(defs)))
	}

	idx, _, err := pipeline.Index(s)
	if err != nil {
		return fail(formatter, fmt.Errorf("struct %q: %w", s.Name, err))
	}
	codec := jsonmodel.New(idx, cgen.Options{InitialCapacity: opts.Capacity})
	root := idx.Root().Key

	var ledger jsonmodel.Ledger
	v, consumed, err := codec.Decode(root, text, &ledger)
	if err != nil {
		var de *jsonmodel.DecodeError
		if errors.As(err, &de) {
			_ = formatter.Error(ErrCodeBadInput, de.Message, map[string]int{"offset": de.Offset})
			return WrapExitError(ExitFailure, ErrCodeBadInput, err)
		}
		return fail(formatter, err)
	}
	formatter.VerboseLog("Parsed %d byte(s) of %d as %s", consumed, len(text), s.Name)

	out, err := codec.Encode(root, v)
	if err != nil {
		return fail(formatter, err)
	}
	if err := codec.Destroy(root, v, &ledger); err != nil {
		return fail(formatter, err)
	}

	result := CheckResult{
		Struct:    s.Name,
		Consumed:  consumed,
		Output:    out,
		Allocs:    ledger.Allocs,
		Frees:     ledger.Frees,
		Grows:     ledger.Grows,
		Destroyed: ledger.Destroyed,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Parsed %d byte(s) as %s\n", result.Consumed, idx.TypeName(root))
	fmt.Fprintln(formatter.Writer, result.Output)
	fmt.Fprintf(formatter.Writer, "allocs %d, frees %d, grows %d\n", result.Allocs, result.Frees, result.Grows)
	return nil
}
