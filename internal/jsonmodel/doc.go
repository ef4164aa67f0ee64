// Package jsonmodel executes the semantics of the generated C codec in Go.
//
// A Codec walks a node.Index the same way the generated functions do:
// Encode produces the exact compact text of the *_to_json functions and
// Decode follows the *_from_json state machines character by character,
// including presence tracking, duplicate-key release, the single cleanup
// path and array capacity doubling. A Ledger records every allocation,
// release and destructor call the C code would make, so ownership can be
// checked without compiling C.
package jsonmodel
