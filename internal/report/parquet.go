package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"identigraph/internal/fileutil"
	"identigraph/internal/graph"
)

// ParquetFileName is the columnar copy of every relation.
const ParquetFileName = "identities_graph.parquet"

const parquetBatchRows = 1024

// EdgeRow is one relation row in the Parquet dump.
type EdgeRow struct {
	Relation string `parquet:"relation,dict"`
	Left     string `parquet:"left"`
	Right    string `parquet:"right"`
}

// WriteParquetDump writes every relation of store to path.
func WriteParquetDump(ctx context.Context, store *graph.Store, path string) (Artifact, error) {
	file, err := fileutil.Create(path)
	if err != nil {
		return Artifact{}, err
	}
	defer file.Abort()

	writer := parquet.NewGenericWriter[EdgeRow](file)
	batch := make([]EdgeRow, 0, parquetBatchRows)
	var total int64
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := writer.Write(batch)
		total += int64(n)
		batch = batch[:0]
		return err
	}

	for _, rel := range graph.Relations {
		err := store.EachEdge(ctx, rel, func(e graph.Edge) error {
			batch = append(batch, EdgeRow{Relation: rel.Name, Left: e.Left, Right: e.Right})
			if len(batch) == cap(batch) {
				return flush()
			}
			return nil
		})
		if err != nil {
			return Artifact{}, fmt.Errorf("parquet dump %s: %w", rel, err)
		}
	}
	if err := flush(); err != nil {
		return Artifact{}, fmt.Errorf("parquet dump: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Artifact{}, fmt.Errorf("close parquet writer: %w", err)
	}
	digest, err := file.Commit()
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: filepath.Base(path), Rows: total, Digest: digest}, nil
}

// ReadParquetDump loads every row of a dump written by WriteParquetDump.
func ReadParquetDump(path string) ([]EdgeRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet dump: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet dump: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[EdgeRow](pf)
	defer reader.Close()

	rows := make([]EdgeRow, 0, pf.NumRows())
	buf := make([]EdgeRow, parquetBatchRows)
	for {
		n, err := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("read parquet dump: %w", err)
		}
	}
}
