// Package store provides a SQLite-backed cache of generated C.
//
// Generated text is a pure function of the MIR fingerprint and the
// generator settings, so artifacts are content addressed:
//   - Builds: one row per cjsongen invocation that wrote to the cache
//   - Artifacts: the generated sections for one struct, keyed by
//     ir.ArtifactKey(fingerprint, settings)
//
// # Determinism
//
//   - Artifact keys are computed via internal/ir/hash.go using RFC 8785
//     canonical JSON and SHA-256 with domain separation
//   - Settings are stored as canonical JSON
//   - List queries order by a stable key with COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
