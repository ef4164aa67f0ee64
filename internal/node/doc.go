// Package node flattens normalized structs into a list of uniquely named
// nodes and indexes them for the code generators.
//
// Every nested struct, array, and primitive of a definition becomes one
// Node whose identity is an interned ID for its qualified name: the dotted
// path from the root struct through field names, e.g.
// "receipts_one_res.products". Array elements use the synthetic segment
// "#array_data#", which is stripped before identifiers are derived.
//
// Parents refer to children by ID, never by embedding. Flatten emits
// children before parents.
//
// Two kinds of failure exist:
//   - *Fault: the graph itself is inconsistent (duplicate name, dangling
//     reference, unknown variant). These are compiler bugs and are raised
//     by panic from Index.Get; pipeline recovers them at its boundary.
//   - *CollisionError, *NestedArrayError: the input cannot be represented
//     in C. These are ordinary returned errors.
package node
