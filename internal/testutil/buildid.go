package testutil

import "fmt"

// SequentialBuildIDs hands out build IDs "build-0001", "build-0002", ...
// in place of random UUIDs.
//
// Not safe for concurrent use.
type SequentialBuildIDs struct {
	n int
}

// Generate returns the next build ID.
func (g *SequentialBuildIDs) Generate() string {
	g.n++
	return fmt.Sprintf("build-%04d", g.n)
}
