package graph

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestPurgeNullEdges(t *testing.T) {
	ctx := context.Background()
	store, err := OpenPath(ctx, filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	// BulkUpsert never writes blank endpoints, so seed them directly.
	seed := []string{
		`INSERT INTO VIAF_string (VIAF, string) VALUES ('viaf:1', NULL)`,
		`INSERT INTO VIAF_string (VIAF, string) VALUES ('', 'Smith, John')`,
		`INSERT INTO VIAF_string (VIAF, string) VALUES ('viaf:1', 'Smith, John')`,
		`INSERT INTO isbn_equivalents (isbna, isbnb) VALUES (NULL, NULL)`,
	}
	for _, stmt := range seed {
		if _, err := store.db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}

	removed, err := store.PurgeNullEdges(ctx)
	if err != nil {
		t.Fatalf("PurgeNullEdges failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 rows removed, got %d", removed)
	}
	edges, err := store.Edges(ctx, VIAFString)
	if err != nil {
		t.Fatalf("Edges failed: %v", err)
	}
	if len(edges) != 1 || edges[0] != (Edge{Left: "viaf:1", Right: "Smith, John"}) {
		t.Fatalf("unexpected remaining edges: %v", edges)
	}
}

func TestSchemaVersionMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")
	store, err := OpenPath(ctx, path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if _, err := store.db.ExecContext(ctx, "PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := OpenPath(ctx, path); err == nil || !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestSchemaAdoptsUnversionedGraph(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")
	store, err := OpenPath(ctx, path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if _, err := store.db.ExecContext(ctx, "PRAGMA user_version = 0"); err != nil {
		t.Fatalf("reset version: %v", err)
	}
	if _, err := store.db.ExecContext(ctx, "DROP TABLE isbn_equivalents"); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = OpenPath(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	var version int
	if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("expected version %d, got %d", schemaVersion, version)
	}
	if _, err := store.Edges(ctx, ISBNEquivalents); err != nil {
		t.Fatalf("expected isbn_equivalents to be recreated: %v", err)
	}
}

func TestAttachQueryCoversProprietaryAuthorities(t *testing.T) {
	query := attachByISBNQuery()
	for _, prefix := range []string{"'harpercollins:%'", "'penguin:%'", "'randomhouse:%'"} {
		if !strings.Contains(query, prefix) {
			t.Fatalf("attach query missing %s:\n%s", prefix, query)
		}
	}
}
