package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"identigraph/internal/config"
	"identigraph/internal/graph"
	"identigraph/internal/logging"
)

// Options control an export run.
type Options struct {
	// Parquet additionally writes a columnar copy of every relation.
	Parquet bool
	// Summary writes export_summary.yaml.
	Summary   bool
	SessionID string
}

// Exporter cleans the graph and writes every export artifact into the
// configured output directory.
type Exporter struct {
	cfg    *config.Config
	store  *graph.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter returns an exporter for store.
func NewExporter(cfg *config.Config, store *graph.Store, logger *slog.Logger) *Exporter {
	return &Exporter{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "export"),
		now:    time.Now,
	}
}

// Run cleans the graph, dumps every relation and writes the reports.
func (e *Exporter) Run(ctx context.Context, opts Options) (Summary, error) {
	dir := e.cfg.Paths.OutputDir
	summary := Summary{
		SessionID:   opts.SessionID,
		GeneratedAt: e.now().UTC().Truncate(time.Second),
		Database:    e.store.Path(),
		OutputDir:   dir,
	}
	if err := e.cfg.EnsureDirectories(); err != nil {
		return summary, err
	}

	clean, err := e.store.Clean(ctx, graph.ClosureOptions{AttachByISBN: e.cfg.Closure.AttachByISBN})
	if err != nil {
		return summary, fmt.Errorf("clean graph: %w", err)
	}
	summary.Clean = CleanSummary{Closure: clean.Closure, Purged: clean.Purged}
	e.logger.Info("graph cleaned",
		logging.Int("passes", clean.Closure.Passes),
		logging.Int64("linked", clean.Closure.Linked),
		logging.Int64("attached", clean.Closure.Attached),
		logging.Int64("subsumed", clean.Closure.Subsumed),
		logging.Int64("purged", clean.Purged),
	)

	counts, err := e.store.DumpAll(ctx, dir)
	if err != nil {
		return summary, err
	}
	summary.Relations = counts
	for _, c := range counts {
		e.logger.Debug("relation dumped", logging.String(logging.FieldTable, c.Relation), logging.Int64(logging.FieldRows, c.Rows))
	}

	equivalents, err := WriteNACOISNI(ctx, e.store, filepath.Join(dir, NACOISNIFileName))
	if err != nil {
		return summary, err
	}
	summary.Reports = append(summary.Reports, equivalents)

	proprietary, err := WriteProprietaryReports(ctx, e.store, dir)
	if err != nil {
		return summary, err
	}
	summary.Reports = append(summary.Reports, proprietary...)

	if opts.Parquet {
		artifact, err := WriteParquetDump(ctx, e.store, filepath.Join(dir, ParquetFileName))
		if err != nil {
			return summary, err
		}
		summary.Parquet = &artifact
	}

	if opts.Summary {
		if err := WriteSummary(filepath.Join(dir, SummaryFileName), summary); err != nil {
			return summary, err
		}
	}
	e.logger.Info("export complete", logging.String("output_dir", dir), logging.Int("reports", len(summary.Reports)))
	return summary, nil
}
