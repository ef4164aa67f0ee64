package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/cjsongen/internal/ir"
)

// BeginBuild records a new build for source and returns it.
// The ID comes from the store's IDGenerator and the start time from its
// Clock.
func (s *Store) BeginBuild(ctx context.Context, source string) (Build, error) {
	b := Build{
		ID:               s.ids.Generate(),
		Source:           source,
		StartedAt:        s.clock.Now().UTC(),
		GeneratorVersion: ir.GeneratorVersion,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (id, source, started_at, generator_version)
		VALUES (?, ?, ?, ?)
	`, b.ID, b.Source, formatTime(b.StartedAt), b.GeneratorVersion)
	if err != nil {
		return Build{}, fmt.Errorf("begin build: %w", err)
	}

	return b, nil
}

// PutArtifact inserts a generated artifact.
// Uses ON CONFLICT(key) DO NOTHING for idempotency - an artifact with the
// same key has the same text, so the first writer wins.
//
// CreatedAt, MIRVersion and GeneratorVersion are filled in by the store.
// Note: The build referenced by BuildID must exist (foreign key constraint).
func (s *Store) PutArtifact(ctx context.Context, a Artifact) error {
	if a.Key == "" {
		return errors.New("put artifact: empty key")
	}
	if a.Settings == "" {
		a.Settings = "{}"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts
		(key, fingerprint, struct_name, settings, types, ser_defs, ser_impls, de_defs, de_impls,
		 build_id, created_at, mir_version, generator_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`,
		a.Key,
		a.Fingerprint,
		a.StructName,
		a.Settings,
		a.Types,
		a.SerDefs,
		a.SerImpls,
		a.DeDefs,
		a.DeImpls,
		a.BuildID,
		formatTime(s.clock.Now()),
		ir.MIRVersion,
		ir.GeneratorVersion,
	)
	if err != nil {
		return fmt.Errorf("put artifact: %w", err)
	}

	return nil
}

// Prune deletes artifacts written by an older generator version and any
// builds left without artifacts. Returns the number of artifacts removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM artifacts WHERE generator_version != ?`, ir.GeneratorVersion)
	if err != nil {
		return 0, fmt.Errorf("prune artifacts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune artifacts: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM builds
		WHERE id NOT IN (SELECT DISTINCT build_id FROM artifacts)
	`)
	if err != nil {
		return 0, fmt.Errorf("prune builds: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	return n, nil
}
