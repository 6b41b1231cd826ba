package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"identigraph/internal/config"
)

var (
	// ErrLocked reports that another process holds the database's writer lock.
	ErrLocked = errors.New("graph database is locked by another process")
	ErrClosed = errors.New("graph store is closed")
)

// Store manages the equivalence graph backed by SQLite. A Store is the
// single writer of its database file.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the graph database configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(context.Background(), cfg.Paths.Database)
}

// OpenPath opens the database at dbPath, acquiring its lock file.
func OpenPath(ctx context.Context, dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("graph database path is empty")
	}

	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire database lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas and TEMP tables are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.ensureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// BulkUpsert inserts every valid edge of set in a single transaction,
// ignoring pairs already present. It returns the number of new rows.
func (s *Store) BulkUpsert(ctx context.Context, set EdgeSet) (int64, error) {
	if set.Len() == 0 {
		return 0, nil
	}
	if s.db == nil {
		return 0, ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for _, rel := range Relations {
		edges := set[rel]
		if len(edges) == 0 {
			continue
		}
		stmt, err := tx.PrepareContext(ctx, rel.insertSQL())
		if err != nil {
			return 0, fmt.Errorf("prepare insert %s: %w", rel, err)
		}
		for _, edge := range edges {
			if !edge.Valid() {
				continue
			}
			res, err := stmt.ExecContext(ctx, edge.Left, edge.Right)
			if err != nil {
				_ = stmt.Close()
				return 0, fmt.Errorf("insert %s: %w", rel, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += n
			}
		}
		if err := stmt.Close(); err != nil {
			return 0, fmt.Errorf("close insert %s: %w", rel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return inserted, nil
}

// Edges returns every row of rel ordered by both columns.
func (s *Store) Edges(ctx context.Context, rel Relation) ([]Edge, error) {
	var edges []Edge
	err := s.EachEdge(ctx, rel, func(e Edge) error {
		edges = append(edges, e)
		return nil
	})
	return edges, err
}

// EachEdge streams the rows of rel, ordered by both columns, to fn. Null
// endpoints are reported as empty strings.
func (s *Store) EachEdge(ctx context.Context, rel Relation, fn func(Edge) error) error {
	query := fmt.Sprintf("SELECT %[2]s, %[3]s FROM %[1]s ORDER BY %[2]s, %[3]s", rel.Name, rel.Left, rel.Right)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query %s: %w", rel, err)
	}
	defer rows.Close()

	for rows.Next() {
		var left, right sql.NullString
		if err := rows.Scan(&left, &right); err != nil {
			return fmt.Errorf("scan %s: %w", rel, err)
		}
		if err := fn(Edge{Left: left.String, Right: right.String}); err != nil {
			return err
		}
	}
	return rows.Err()
}

// HasEdge reports whether rel contains the pair (left, right).
func (s *Store) HasEdge(ctx context.Context, rel Relation, left, right string) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE %s = ? AND %s = ?", rel.Name, rel.Left, rel.Right)
	var count int
	if err := s.db.QueryRowContext(ctx, query, left, right).Scan(&count); err != nil {
		return false, fmt.Errorf("lookup %s: %w", rel, err)
	}
	return count > 0, nil
}
