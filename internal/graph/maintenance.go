package graph

import (
	"context"
	"fmt"
)

// PurgeNullEdges deletes rows with a null or empty endpoint from every
// relation and returns the number of rows removed.
func (s *Store) PurgeNullEdges(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var removed int64
	for _, rel := range Relations {
		query := fmt.Sprintf(
			"DELETE FROM %[1]s WHERE %[2]s IS NULL OR %[3]s IS NULL OR %[2]s = '' OR %[3]s = ''",
			rel.Name, rel.Left, rel.Right,
		)
		res, err := tx.ExecContext(ctx, query)
		if err != nil {
			return 0, fmt.Errorf("purge %s: %w", rel, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purge: %w", err)
	}
	return removed, nil
}

// BuildIndexes (re)creates the two single-column indexes of every relation.
func (s *Store) BuildIndexes(ctx context.Context) error {
	for _, rel := range Relations {
		if err := s.BuildIndex(ctx, rel); err != nil {
			return err
		}
	}
	return nil
}

// BuildIndex (re)creates the indexes of rel.
func (s *Store) BuildIndex(ctx context.Context, rel Relation) error {
	for i, column := range []string{rel.Left, rel.Right} {
		name := rel.indexName(i)
		if _, err := s.db.ExecContext(ctx, "DROP INDEX IF EXISTS "+name); err != nil {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", name, rel.Name, column)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}

// DropIndexes removes the relation indexes ahead of a bulk load.
func (s *Store) DropIndexes(ctx context.Context) error {
	for _, rel := range Relations {
		for i := 0; i < 2; i++ {
			name := rel.indexName(i)
			if _, err := s.db.ExecContext(ctx, "DROP INDEX IF EXISTS "+name); err != nil {
				return fmt.Errorf("drop index %s: %w", name, err)
			}
		}
	}
	return nil
}

// Indexes lists the relation indexes currently present.
func (s *Store) Indexes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='index' AND name LIKE 'IDX_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Vacuum compacts the database file.
func (s *Store) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// CleanStats summarizes a Clean run.
type CleanStats struct {
	Closure ClosureStats `json:"closure" yaml:"closure"`
	Purged  int64        `json:"purged" yaml:"purged"`
}

// Clean cross-references the graph, purges null edges and compacts the file.
func (s *Store) Clean(ctx context.Context, opts ClosureOptions) (CleanStats, error) {
	var stats CleanStats
	closure, err := s.CrossReference(ctx, opts)
	if err != nil {
		return stats, err
	}
	stats.Closure = closure
	if stats.Purged, err = s.PurgeNullEdges(ctx); err != nil {
		return stats, err
	}
	return stats, s.Vacuum(ctx)
}

// RelationCount is the row count of one relation.
type RelationCount struct {
	Relation string `json:"relation" yaml:"relation"`
	Rows     int64  `json:"rows" yaml:"rows"`
}

// Counts returns the row count of every relation in schema order.
func (s *Store) Counts(ctx context.Context) ([]RelationCount, error) {
	counts := make([]RelationCount, 0, len(Relations))
	for _, rel := range Relations {
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+rel.Name).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", rel, err)
		}
		counts = append(counts, RelationCount{Relation: rel.Name, Rows: n})
	}
	return counts, nil
}
