package testsupport

import (
	"context"
	"testing"

	"identigraph/internal/config"
	"identigraph/internal/graph"
)

// MustOpenStore opens a graph.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *graph.Store {
	t.Helper()

	store, err := graph.Open(cfg)
	if err != nil {
		t.Fatalf("graph.Open failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustUpsert writes set to store or fails the test.
func MustUpsert(t testing.TB, store *graph.Store, set graph.EdgeSet) {
	t.Helper()

	if _, err := store.BulkUpsert(context.Background(), set); err != nil {
		t.Fatalf("BulkUpsert failed: %v", err)
	}
}
