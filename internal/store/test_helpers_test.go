package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/cjsongen/internal/testutil"
)

// createTestStore creates a store in a temp dir with a deterministic clock
// and sequential build IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(&testutil.SequentialBuildIDs{}),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBuild begins a build or fails the test.
func createTestBuild(t *testing.T, s *Store) Build {
	t.Helper()
	b, err := s.BeginBuild(context.Background(), "shop.cue")
	if err != nil {
		t.Fatalf("BeginBuild() failed: %v", err)
	}
	return b
}

// createTestArtifact returns an artifact with minimal required fields.
func createTestArtifact(key, structName, buildID string) Artifact {
	return Artifact{
		Key:         key,
		Fingerprint: "fp-" + key,
		StructName:  structName,
		Settings:    `{"indent_width":4}`,
		Types:       "typedef struct {\n} " + structName + ";\n",
		SerDefs:     "char* " + structName + "_to_json(const " + structName + "* model);\n",
		BuildID:     buildID,
	}
}
