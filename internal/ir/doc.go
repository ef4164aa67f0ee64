// Package ir provides the normalized value tree (MIR) for cjsongen.
//
// Every MIR value is exactly one of Primitive, Object, or Array, with
// nested mappings using the same Value type recursively. Downstream code
// (internal/node) never needs to special-case HIR syntax.
//
// Key design constraints:
//   - Normalization is total and lossless for well-formed HIR
//   - Field order is preserved everywhere (it is part of identity)
//   - Fingerprints use RFC 8785 canonical JSON with domain-separated SHA-256
//
// ir imports only internal/schema.
package ir
