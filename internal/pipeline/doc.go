// Package pipeline compiles schema structs into generated C.
//
// Each top-level struct runs normalize → fingerprint → flatten → index →
// generate independently. CompileAll fans the structs out over a bounded
// errgroup and then checks that no two structs derive the same C
// identifier.
//
// Generated text is a pure function of the MIR fingerprint and the
// generator settings, so results are memoised in an LRU keyed by
// ir.ArtifactKey and, when a store is attached, persisted across runs.
//
// Internal faults raised by the lower layers (*node.Fault panics) are
// recovered here and reported as *InternalError.
package pipeline
