package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/cjsongen/internal/ir"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/pipeline"
)

// NodeInfo describes one flattened node and the C names derived for it.
type NodeInfo struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"` // struct, array, or the primitive token
	Type   string `json:"type"`
	Func   string `json:"func,omitempty"`   // function stem of structs and arrays
	Member string `json:"member,omitempty"` // member name within the parent struct
}

// StructInfo lists the nodes of one top-level struct.
type StructInfo struct {
	Name        string     `json:"name"`
	Fingerprint string     `json:"fingerprint"`
	Nodes       []NodeInfo `json:"nodes"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <schema-file>",
		Short: "List flattened nodes and their C names",
		Long: `List every node of every top-level struct in emission order with the
C type, function stem and member name derived from its qualified name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	defs, err := loadSchema(formatter, path)
	if err != nil {
		return err
	}

	infos := make([]StructInfo, 0, len(defs))
	for _, s := range defs {
		idx, m, err := pipeline.Index(s)
		if err != nil {
			return fail(formatter, fmt.Errorf("struct %q: %w", s.Name, err))
		}
		fp, err := ir.Fingerprint(m)
		if err != nil {
			return fail(formatter, err)
		}
		infos = append(infos, StructInfo{Name: s.Name, Fingerprint: fp, Nodes: describeNodes(idx)})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%s)\n", info.Name, shortFingerprint(info.Fingerprint))
		for _, n := range info.Nodes {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", n.Path, n.Kind, n.Type, n.Func, n.Member)
		}
	}
	return tw.Flush()
}

// describeNodes lists idx in emission order.
func describeNodes(idx *node.Index) []NodeInfo {
	members := make(map[node.ID]string)
	for _, n := range idx.Nodes() {
		if s, ok := n.(*node.StructNode); ok {
			for _, f := range s.Fields {
				members[f] = idx.MemberName(f)
			}
		}
	}

	out := make([]NodeInfo, 0, len(idx.Nodes()))
	for _, n := range idx.Nodes() {
		id := n.ID()
		info := NodeInfo{Path: idx.Path(id), Type: idx.TypeName(id), Member: members[id]}
		switch v := n.(type) {
		case *node.StructNode:
			info.Kind, info.Func = string(ir.TagStruct), idx.FuncName(id)
		case *node.ArrayNode:
			info.Kind, info.Func = string(ir.TagArray), idx.FuncName(id)
		case *node.PrimitiveNode:
			info.Kind = v.Kind.String()
		}
		out = append(out, info)
	}
	return out
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
