// Package sqlgen emits SQLite tables that store values of a compiled
// struct.
//
// Every struct node becomes a table keyed by "_id". Primitive fields are
// columns, nested structs are "<member>_id" references, and each array
// becomes a link table "<stem>_array" holding (parent_id, idx) and either
// the element value or a reference to the element's table. Struct tables
// come first, children before parents, then link tables.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/schema"
)

// KeyColumn is the primary key of every struct table.
const KeyColumn = "_id"

// Generate returns the DDL for idx.
func Generate(idx *node.Index) (ddl string, err error) {
	defer node.Recover(&err)

	parents := map[node.ID]node.ID{}
	var outs []*cgen.Output
	for _, n := range idx.Nodes() {
		s, ok := n.(*node.StructNode)
		if !ok {
			continue
		}
		out, err := structTable(idx, s)
		if err != nil {
			return "", err
		}
		outs = append(outs, out)
		for _, f := range s.Fields {
			if _, isArray := idx.Get(f).(*node.ArrayNode); isArray {
				parents[f] = s.Key
			}
		}
	}
	for _, n := range idx.Nodes() {
		if a, ok := n.(*node.ArrayNode); ok {
			outs = append(outs, linkTable(idx, a, parents[a.Key]))
		}
	}

	texts := make([]string, len(outs))
	for i, o := range outs {
		texts[i] = o.String()
	}
	return strings.Join(texts, "\n"), nil
}

// TableName is the table holding values of struct node id.
func TableName(idx *node.Index, id node.ID) string {
	return idx.FuncName(id)
}

// LinkTableName is the table holding the elements of array node id.
func LinkTableName(idx *node.Index, id node.ID) string {
	return idx.FuncName(id) + "_array"
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func structTable(idx *node.Index, s *node.StructNode) (*cgen.Output, error) {
	owners := map[string]string{KeyColumn: idx.Path(s.Key)}
	claim := func(col string, id node.ID) error {
		if prev, ok := owners[col]; ok {
			return &node.CollisionError{Kind: "column", Identifier: col, First: prev, Second: idx.Path(id)}
		}
		owners[col] = idx.Path(id)
		return nil
	}

	cols := []string{quote(KeyColumn) + " INTEGER PRIMARY KEY"}
	for _, f := range s.Fields {
		name := idx.MemberName(f)
		switch v := idx.Get(f).(type) {
		case *node.PrimitiveNode:
			if err := claim(name, f); err != nil {
				return nil, err
			}
			cols = append(cols, quote(name)+" "+columnType(v.Kind, name))
		case *node.StructNode:
			col := name + "_id"
			if err := claim(col, f); err != nil {
				return nil, err
			}
			cols = append(cols, fmt.Sprintf("%s INTEGER NOT NULL REFERENCES %s(%s)",
				quote(col), quote(TableName(idx, v.Key)), quote(KeyColumn)))
		case *node.ArrayNode:
			// stored in the link table
		}
	}

	return table(TableName(idx, s.Key), cols), nil
}

func linkTable(idx *node.Index, a *node.ArrayNode, parent node.ID) *cgen.Output {
	cols := []string{
		fmt.Sprintf(`"parent_id" INTEGER NOT NULL REFERENCES %s(%s) ON DELETE CASCADE`,
			quote(TableName(idx, parent)), quote(KeyColumn)),
		`"idx" INTEGER NOT NULL`,
	}
	switch v := idx.Get(a.Data).(type) {
	case *node.PrimitiveNode:
		cols = append(cols, `"value" `+columnType(v.Kind, "value"))
	case *node.StructNode:
		cols = append(cols, fmt.Sprintf(`"value_id" INTEGER NOT NULL REFERENCES %s(%s)`,
			quote(TableName(idx, v.Key)), quote(KeyColumn)))
	default:
		panic(&node.Fault{Op: "sqlgen", Message: fmt.Sprintf("array element %T", v)})
	}
	cols = append(cols, `PRIMARY KEY ("parent_id", "idx")`)
	return table(LinkTableName(idx, a.Key), cols)
}

func columnType(k schema.PrimitiveKind, col string) string {
	switch k {
	case schema.KindStr:
		return "TEXT NOT NULL"
	case schema.KindInt:
		return "INTEGER NOT NULL"
	case schema.KindBool:
		return fmt.Sprintf("INTEGER NOT NULL CHECK (%s IN (0, 1))", quote(col))
	}
	panic(&node.Fault{Op: "sqlgen", Message: fmt.Sprintf("unknown primitive kind %v", k)})
}

func table(name string, cols []string) *cgen.Output {
	out := cgen.NewOutput(cgen.DefaultIndentWidth)
	out.Beginf("CREATE TABLE IF NOT EXISTS %s (", quote(name))
	for i, c := range cols {
		if i < len(cols)-1 {
			c += ","
		}
		out.Push(c)
	}
	out.Close(");")
	return out
}
