// Package compiler turns schema source text into schema.Struct
// definitions.
//
// Three front-ends share one data model. CUE is the primary format:
//
//	struct: item: {
//		id:   int
//		tags: [string]
//	}
//
// YAML and JSON accept either a mapping from struct name to fields or a
// list of {name, values} entries:
//
//	item:
//	  id: int
//	  tags: [str]
//
// Field order is preserved in every format. Primitive tokens are str,
// string, int and bool; a nested mapping is an anonymous struct and a
// one-element list is an array of its element.
package compiler
