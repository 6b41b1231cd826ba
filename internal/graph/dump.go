package graph

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"identigraph/internal/fileutil"
)

// DumpFileName returns the dump artifact name for rel.
func DumpFileName(rel Relation) string {
	return rel.Name + "_DUMP_.txt"
}

// DumpAll writes every relation to dir, one tab-separated line per row, and
// returns the rows written per relation.
func (s *Store) DumpAll(ctx context.Context, dir string) ([]RelationCount, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dump directory: %w", err)
	}
	counts := make([]RelationCount, 0, len(Relations))
	for _, rel := range Relations {
		n, err := s.dumpRelation(ctx, rel, filepath.Join(dir, DumpFileName(rel)))
		if err != nil {
			return counts, err
		}
		counts = append(counts, RelationCount{Relation: rel.Name, Rows: n})
	}
	return counts, nil
}

func (s *Store) dumpRelation(ctx context.Context, rel Relation, path string) (int64, error) {
	file, err := fileutil.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create dump %s: %w", rel, err)
	}
	defer file.Abort()

	w := bufio.NewWriter(file)
	var n int64
	err = s.EachEdge(ctx, rel, func(e Edge) error {
		n++
		_, err := fmt.Fprintf(w, "%s\t%s\n", e.Left, e.Right)
		return err
	})
	if err != nil {
		return n, fmt.Errorf("dump %s: %w", rel, err)
	}
	if err := w.Flush(); err != nil {
		return n, fmt.Errorf("flush dump %s: %w", rel, err)
	}
	if _, err := file.Commit(); err != nil {
		return n, fmt.Errorf("dump %s: %w", rel, err)
	}
	return n, nil
}
