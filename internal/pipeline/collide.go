package pipeline

import "github.com/roach88/cjsongen/internal/node"

type owner struct {
	root string
	path string
}

// checkCollisions reports identifiers derived by more than one top-level
// struct. Collisions inside one struct are caught by node.NewIndex.
func checkCollisions(results []Result) error {
	types := map[string]owner{}
	structFns := map[string]owner{}
	arrayFns := map[string]owner{}

	claim := func(seen map[string]owner, kind, ident string, o owner) error {
		if prev, ok := seen[ident]; ok && prev.root != o.root {
			return &node.CollisionError{Kind: kind, Identifier: ident, First: prev.path, Second: o.path}
		}
		seen[ident] = o
		return nil
	}

	for _, r := range results {
		for _, n := range r.Index.Nodes() {
			o := owner{root: r.Name, path: r.Index.Path(n.ID())}
			switch n.(type) {
			case *node.StructNode:
				if err := claim(types, "type", r.Index.TypeName(n.ID()), o); err != nil {
					return err
				}
				if err := claim(structFns, "function", r.Index.FuncName(n.ID()), o); err != nil {
					return err
				}
			case *node.ArrayNode:
				if err := claim(arrayFns, "function", r.Index.FuncName(n.ID()), o); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
