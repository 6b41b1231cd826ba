package graph

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. Databases at version 0
// (fresh files, or graphs built by earlier tooling with the same tables) are
// adopted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by an incompatible
// schema.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ensureSchema creates any missing relation tables and stamps the version.
// It runs on every open.
func (s *Store) ensureSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != 0 && version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete the database and re-ingest)",
			ErrSchemaMismatch, version, schemaVersion)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create relation tables: %w", err)
	}
	if version == 0 {
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("stamp schema version: %w", err)
		}
	}
	return tx.Commit()
}
