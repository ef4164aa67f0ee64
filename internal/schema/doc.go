// Package schema holds the user-facing struct definitions (HIR).
//
// A definition is a named, ordered mapping from field name to a Value. A
// Value is a primitive marker, a nested anonymous struct, or a one-element
// array wrapper naming the element type. Field order is significant: it
// becomes the C member order and the order keys are checked in generated
// parsers.
//
// schema imports nothing internal. Front-ends (internal/compiler) produce
// schema values; internal/ir consumes them.
package schema
