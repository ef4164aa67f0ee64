package store

import "time"

// Build is one cjsongen invocation that wrote to the cache.
type Build struct {
	ID               string
	Source           string // schema file path or "-" for stdin
	StartedAt        time.Time
	GeneratorVersion string
}

// Artifact is the generated text for one top-level struct.
//
// Key is ir.ArtifactKey(Fingerprint, settings). Settings holds the
// canonical JSON of the generator settings that produced the text.
type Artifact struct {
	Key              string
	Fingerprint      string
	StructName       string
	Settings         string
	Types            string
	SerDefs          string
	SerImpls         string
	DeDefs           string
	DeImpls          string
	BuildID          string
	CreatedAt        time.Time
	MIRVersion       string
	GeneratorVersion string
}
