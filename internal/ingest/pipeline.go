package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"identigraph/internal/graph"
	"identigraph/internal/logging"
)

// Options tunes a pipeline run.
type Options struct {
	Workers    int
	QueueDepth int
	BatchRows  int
}

// Summary describes a completed pipeline run.
type Summary struct {
	Driver   string        `json:"driver" yaml:"driver"`
	Files    int           `json:"files" yaml:"files"`
	Failed   int           `json:"failed" yaml:"failed"`
	Records  int           `json:"records" yaml:"records"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Edges    int           `json:"edges" yaml:"edges"`
	Inserted int64         `json:"inserted" yaml:"inserted"`
	Flushes  int           `json:"flushes" yaml:"flushes"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
	PerFile  []FileStats   `json:"per_file,omitempty" yaml:"per_file,omitempty"`
	// Clean reports the cross-reference and purge run after the load.
	Clean graph.CleanStats `json:"clean" yaml:"clean"`
}

// Pipeline fans source files out to extraction workers and funnels their
// edges through a single writer.
type Pipeline struct {
	store  *graph.Store
	opts   Options
	logger *slog.Logger
}

// NewPipeline returns a pipeline writing into store.
func NewPipeline(store *graph.Store, opts Options, logger *slog.Logger) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueDepth <= 0 {
		opts.QueueDepth = 1
	}
	return &Pipeline{
		store:  store,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "ingest"),
	}
}

// Run ingests files with driver. A file that fails to read is logged and
// counted in Summary.Failed; store errors and cancellation abort the run.
func (p *Pipeline) Run(ctx context.Context, driver Driver, files []string) (Summary, error) {
	start := time.Now()
	summary := Summary{Driver: driver.Name(), Files: len(files)}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	batch := graph.NewBatch(p.store, p.opts.BatchRows)
	chunks := make(chan graph.EdgeSet, p.opts.QueueDepth)

	var mu sync.Mutex
	record := func(stats FileStats, failed bool) {
		mu.Lock()
		defer mu.Unlock()
		summary.Records += stats.Records
		summary.Skipped += stats.Skipped
		summary.Edges += stats.Edges
		summary.PerFile = append(summary.PerFile, stats)
		if failed {
			summary.Failed++
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for set := range chunks {
			if err := batch.Add(gctx, set); err != nil {
				return fmt.Errorf("write edges: %w", err)
			}
		}
		if err := batch.Flush(gctx); err != nil {
			return fmt.Errorf("write edges: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer close(chunks)
		workers, wctx := errgroup.WithContext(gctx)
		workers.SetLimit(p.opts.Workers)
		emit := func(set graph.EdgeSet) error {
			select {
			case chunks <- set:
				return nil
			case <-wctx.Done():
				return wctx.Err()
			}
		}
		for _, file := range files {
			if wctx.Err() != nil {
				break
			}
			workers.Go(func() error {
				p.logger.Info("file started",
					logging.String(logging.FieldSource, file),
					logging.String(logging.FieldProfile, driver.Name()),
				)
				stats, err := driver.Ingest(wctx, file, emit, p.logger)
				if err != nil {
					record(stats, true)
					if wctx.Err() != nil {
						return wctx.Err()
					}
					logging.ErrorWithContext(p.logger, "file aborted", "source_file_failed",
						logging.String(logging.FieldSource, file),
						logging.Error(err),
						logging.Int("records", stats.Records),
						logging.String(logging.FieldImpact, "records after the fault were not ingested"),
						logging.String(logging.FieldErrorHint, "check the file is complete and in the expected format"),
					)
					return nil
				}
				record(stats, false)
				p.logger.Info("file complete",
					logging.String(logging.FieldSource, file),
					logging.Int("records", stats.Records),
					logging.Int("skipped", stats.Skipped),
					logging.Int("edges", stats.Edges),
				)
				return nil
			})
		}
		return workers.Wait()
	})

	err := g.Wait()
	summary.Inserted = batch.Inserted()
	summary.Flushes = batch.Flushes()
	summary.Elapsed = time.Since(start)
	slices.SortFunc(summary.PerFile, func(a, b FileStats) int { return strings.Compare(a.Path, b.Path) })
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return summary, ctx.Err()
		}
		return summary, err
	}
	return summary, nil
}
