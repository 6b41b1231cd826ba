package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"identigraph/internal/extract"
	"identigraph/internal/graph"
	"identigraph/internal/identifier"
	"identigraph/internal/logging"
	"identigraph/internal/marc"
	"identigraph/internal/sources"
)

// FileStats reports what one source file contributed.
type FileStats struct {
	Path    string `json:"path" yaml:"path"`
	Records int    `json:"records" yaml:"records"`
	Skipped int    `json:"skipped" yaml:"skipped"`
	Edges   int    `json:"edges" yaml:"edges"`
}

// Emit hands a chunk of edges to the writer. It blocks while the writer's
// queue is full.
type Emit func(graph.EdgeSet) error

// Driver turns one source file into edge chunks.
type Driver interface {
	Name() string
	Ingest(ctx context.Context, path string, emit Emit, logger *slog.Logger) (FileStats, error)
}

// chunker groups the edges of several records into one emitted chunk.
type chunker struct {
	emit    Emit
	limit   int
	pending graph.EdgeSet
	records int
	stats   *FileStats
}

func newChunker(emit Emit, limit int, stats *FileStats) *chunker {
	if limit <= 0 {
		limit = 1
	}
	return &chunker{emit: emit, limit: limit, pending: graph.EdgeSet{}, stats: stats}
}

func (c *chunker) add(set graph.EdgeSet) error {
	c.pending.Merge(set)
	c.stats.Edges += set.Len()
	c.records++
	if c.records >= c.limit {
		return c.flush()
	}
	return nil
}

func (c *chunker) flush() error {
	if c.pending.Len() == 0 {
		c.records = 0
		return nil
	}
	chunk := c.pending
	c.pending = graph.EdgeSet{}
	c.records = 0
	return c.emit(chunk)
}

func logProgress(logger *slog.Logger, sampler *logging.ProgressSampler, path string, count int) {
	if sampler.ShouldLog(int64(count), path) && count > 0 {
		logger.Info("ingest progress", logging.String(logging.FieldSource, path), logging.Int("records", count))
	}
}

// MARCDriver reads binary record streams with a profile's extraction rules.
type MARCDriver struct {
	Profile      extract.Profile
	ChunkRecords int
}

func (d MARCDriver) Name() string { return "marc/" + string(d.Profile) }

func (d MARCDriver) Ingest(ctx context.Context, path string, emit Emit, logger *slog.Logger) (FileStats, error) {
	stats := FileStats{Path: path}
	file, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := marc.NewReader(file)
	chunks := newChunker(emit, d.ChunkRecords, &stats)
	sampler := logging.NewProgressSampler(0)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if marc.IsRecordFatal(err) {
				stats.Skipped++
				logging.WarnWithContext(logger, "record skipped", "record_invalid",
					logging.String(logging.FieldSource, path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "record ignored, stream continues"),
					logging.String(logging.FieldErrorHint, "inspect the record at this position in the source file"),
				)
				continue
			}
			// keep what was decoded before the stream broke
			if ferr := chunks.flush(); ferr != nil {
				return stats, ferr
			}
			return stats, err
		}
		stats.Records++
		logProgress(logger, sampler, path, stats.Records)

		set, ok := RecordEdges(extract.Extract(rec, d.Profile), d.Profile)
		if !ok {
			continue
		}
		if err := chunks.add(set); err != nil {
			return stats, err
		}
	}
	return stats, chunks.flush()
}

// TSVDriver reads delimited text exports with a typed header row.
type TSVDriver struct {
	ChunkRecords int
}

func (TSVDriver) Name() string { return "tsv" }

func (d TSVDriver) Ingest(ctx context.Context, path string, emit Emit, logger *slog.Logger) (FileStats, error) {
	stats := FileStats{Path: path}
	file, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	chunks := newChunker(emit, d.ChunkRecords, &stats)
	sampler := logging.NewProgressSampler(0)
	err = sources.ReadTSV(ctx, file, func(row sources.TSVRow) error {
		stats.Records++
		logProgress(logger, sampler, path, stats.Records)
		if row.Overflow > 0 {
			logger.Debug("tsv row has more cells than headers",
				logging.String(logging.FieldSource, path),
				logging.Int("line", row.Line),
				logging.Int("extra_cells", row.Overflow),
			)
		}
		if row.Result.Empty() {
			stats.Skipped++
			return nil
		}
		return chunks.add(Edges(row.Result))
	})
	if err != nil {
		return stats, err
	}
	return stats, chunks.flush()
}

// LinksDriver reads VIAF cluster link tables.
type LinksDriver struct {
	ChunkRecords int
}

func (LinksDriver) Name() string { return "links" }

func (d LinksDriver) Ingest(ctx context.Context, path string, emit Emit, logger *slog.Logger) (FileStats, error) {
	return ingestLines(ctx, path, emit, logger, d.ChunkRecords, func(line string) (graph.EdgeSet, bool) {
		link, ok := sources.ParseLink(line)
		if !ok {
			return nil, false
		}
		set := graph.EdgeSet{}
		set.Add(graph.VIAFEquivalences, identifier.Key(identifier.VIAF, link.VIAF), identifier.Key(link.Authority, link.Value))
		return set, true
	})
}

// ISBNDriver reads ISBN equivalence lists.
type ISBNDriver struct {
	ChunkRecords int
}

func (ISBNDriver) Name() string { return "isbn" }

func (d ISBNDriver) Ingest(ctx context.Context, path string, emit Emit, logger *slog.Logger) (FileStats, error) {
	return ingestLines(ctx, path, emit, logger, d.ChunkRecords, func(line string) (graph.EdgeSet, bool) {
		pair, ok := sources.ParseISBNPair(line)
		if !ok {
			return nil, false
		}
		set := graph.EdgeSet{}
		for _, e := range pair.Expand() {
			set.Add(graph.ISBNEquivalents, e[0], e[1])
		}
		return set, true
	})
}

func ingestLines(ctx context.Context, path string, emit Emit, logger *slog.Logger, chunkRecords int, parse func(string) (graph.EdgeSet, bool)) (FileStats, error) {
	stats := FileStats{Path: path}
	file, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	chunks := newChunker(emit, chunkRecords, &stats)
	sampler := logging.NewProgressSampler(0)
	err = sources.ScanLines(ctx, file, func(_ int, line string) error {
		stats.Records++
		logProgress(logger, sampler, path, stats.Records)
		set, ok := parse(line)
		if !ok {
			stats.Skipped++
			return nil
		}
		return chunks.add(set)
	})
	if err != nil {
		return stats, err
	}
	return stats, chunks.flush()
}
