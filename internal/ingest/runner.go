package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"identigraph/internal/config"
	"identigraph/internal/extract"
	"identigraph/internal/graph"
	"identigraph/internal/logging"
)

// DriverFor returns the driver that reads sources of kind.
func DriverFor(kind config.SourceKind, cfg *config.Config) (Driver, error) {
	chunk := cfg.Ingest.ChunkRecords
	switch kind {
	case config.SourceBNB:
		return MARCDriver{Profile: extract.BNB, ChunkRecords: chunk}, nil
	case config.SourceNACO:
		return MARCDriver{Profile: extract.NACO, ChunkRecords: chunk}, nil
	case config.SourceVIAF:
		return MARCDriver{Profile: extract.VIAF, ChunkRecords: chunk}, nil
	case config.SourceTSV:
		return TSVDriver{ChunkRecords: chunk}, nil
	case config.SourceVIAFLinks:
		return LinksDriver{ChunkRecords: chunk}, nil
	case config.SourceISBN:
		return ISBNDriver{ChunkRecords: chunk}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// ProfileKind maps a MARC extraction profile to its configured source kind.
func ProfileKind(p extract.Profile) config.SourceKind {
	switch p {
	case extract.NACO:
		return config.SourceNACO
	case extract.VIAF:
		return config.SourceVIAF
	default:
		return config.SourceBNB
	}
}

// Request selects what a Runner ingests. Files defaults to the configured
// pattern for Kind.
type Request struct {
	Kind  config.SourceKind
	Files []string
	// KeepIndexes skips dropping and rebuilding the relation indexes around
	// the load.
	KeepIndexes bool
}

// Runner wires configuration, store and pipeline together.
type Runner struct {
	cfg    *config.Config
	store  *graph.Store
	logger *slog.Logger
	log    *slog.Logger
}

// NewRunner returns a runner for cfg writing into store.
func NewRunner(cfg *config.Config, store *graph.Store, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, store: store, logger: logger, log: logging.NewComponentLogger(logger, "ingest")}
}

// Run ingests the requested sources, then cross-references and purges the
// graph so new edges are merged onto their hubs. Indexes are dropped for the
// load and rebuilt before the clean unless KeepIndexes is set.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, error) {
	driver, err := DriverFor(req.Kind, r.cfg)
	if err != nil {
		return Summary{}, err
	}
	files := req.Files
	if len(files) == 0 {
		files, err = r.cfg.SourceFiles(req.Kind)
		if err != nil {
			return Summary{}, err
		}
	}
	if len(files) == 0 {
		pattern, _ := r.cfg.SourcePattern(req.Kind)
		return Summary{Driver: driver.Name()}, fmt.Errorf("no %s source files match %s", req.Kind, pattern)
	}

	r.log.Info("ingest started",
		logging.String(logging.FieldProfile, driver.Name()),
		logging.Int("files", len(files)),
		logging.Bool("keep_indexes", req.KeepIndexes),
		logging.Bool("attach_by_isbn", r.cfg.Closure.AttachByISBN),
	)
	if !req.KeepIndexes {
		if err := r.store.DropIndexes(ctx); err != nil {
			return Summary{}, err
		}
	}

	pipeline := NewPipeline(r.store, Options{
		Workers:    r.cfg.Ingest.Workers,
		QueueDepth: r.cfg.Ingest.QueueDepth,
		BatchRows:  r.cfg.Ingest.BatchRows,
	}, r.logger)
	summary, err := pipeline.Run(ctx, driver, files)
	if err != nil {
		return summary, err
	}

	if !req.KeepIndexes {
		if err := r.store.BuildIndexes(ctx); err != nil {
			return summary, err
		}
	}

	clean, err := r.store.Clean(ctx, graph.ClosureOptions{AttachByISBN: r.cfg.Closure.AttachByISBN})
	if err != nil {
		return summary, fmt.Errorf("clean after ingest: %w", err)
	}
	summary.Clean = clean
	r.log.Info("ingest complete",
		logging.String(logging.FieldProfile, driver.Name()),
		logging.Int("files", summary.Files),
		logging.Int("failed", summary.Failed),
		logging.Int64("inserted", summary.Inserted),
		logging.Any("closure", clean.Closure),
		logging.Int64("purged", clean.Purged),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}
