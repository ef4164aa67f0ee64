package ir

// Version constants for MIR and generated artifacts.
const (
	// MIRVersion is the normalized tree schema version.
	MIRVersion = "1"

	// GeneratorVersion is the cjsongen code generator version. Bump it
	// whenever generated text changes so cached artifacts are invalidated.
	GeneratorVersion = "0.3.0"
)
