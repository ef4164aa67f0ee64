package store

import (
	"context"
	"database/sql"
	"fmt"
)

const artifactColumns = `key, fingerprint, struct_name, settings, types, ser_defs, ser_impls, de_defs, de_impls,
		build_id, created_at, mir_version, generator_version`

// GetArtifact retrieves a single artifact by key.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetArtifact(ctx context.Context, key string) (Artifact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE key = ?
	`, key)

	return scanArtifact(row)
}

// Artifacts returns the artifacts written by a build, ordered by struct
// name then key (COLLATE BINARY).
//
// Returns an empty slice (not nil) if the build wrote nothing.
func (s *Store) Artifacts(ctx context.Context, buildID string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE build_id = ?
		ORDER BY struct_name COLLATE BINARY ASC, key COLLATE BINARY ASC
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}

// Builds returns every build ordered by start time then ID.
func (s *Store) Builds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, started_at, generator_version
		FROM builds
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		var b Build
		var started string
		if err := rows.Scan(&b.ID, &b.Source, &started, &b.GeneratorVersion); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		if b.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (Artifact, error) {
	var a Artifact
	var created string
	err := row.Scan(
		&a.Key, &a.Fingerprint, &a.StructName, &a.Settings,
		&a.Types, &a.SerDefs, &a.SerImpls, &a.DeDefs, &a.DeImpls,
		&a.BuildID, &created, &a.MIRVersion, &a.GeneratorVersion,
	)
	if err == sql.ErrNoRows {
		return Artifact{}, err
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("scan artifact: %w", err)
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return Artifact{}, err
	}
	return a, nil
}
