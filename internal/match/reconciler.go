package match

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"identigraph/internal/config"
	"identigraph/internal/graph"
	"identigraph/internal/logging"
	"identigraph/internal/sources"
	"identigraph/internal/textutil"
)

// FileResult summarizes the reconciliation of one name list.
type FileResult struct {
	Source       string `json:"source" yaml:"source"`
	Rows         int    `json:"rows" yaml:"rows"`
	Candidates   int    `json:"candidates" yaml:"candidates"`
	Accepted     int    `json:"accepted" yaml:"accepted"`
	Rejected     int    `json:"rejected" yaml:"rejected"`
	AcceptedPath string `json:"accepted_path" yaml:"accepted_path"`
	RejectedPath string `json:"rejected_path" yaml:"rejected_path"`
}

// Reconciler matches name lists against a graph store.
type Reconciler struct {
	cfg    *config.Config
	store  *graph.Store
	logger *slog.Logger
}

// NewReconciler returns a reconciler writing reports to cfg's output
// directory.
func NewReconciler(cfg *config.Config, store *graph.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{cfg: cfg, store: store, logger: logging.NewComponentLogger(logger, "match")}
}

// Run reconciles files, defaulting to the configured TSV sources.
func (r *Reconciler) Run(ctx context.Context, files []string) ([]FileResult, error) {
	if len(files) == 0 {
		var err error
		files, err = r.cfg.SourceFiles(config.SourceTSV)
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		pattern, _ := r.cfg.SourcePattern(config.SourceTSV)
		return nil, fmt.Errorf("no name lists match %s", pattern)
	}
	if err := os.MkdirAll(r.cfg.Paths.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	results := make([]FileResult, 0, len(files))
	for _, file := range files {
		res, err := r.MatchFile(ctx, file)
		if err != nil {
			return results, fmt.Errorf("match %s: %w", filepath.Base(file), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// MatchFile reconciles one name list and writes its two reports.
func (r *Reconciler) MatchFile(ctx context.Context, path string) (FileResult, error) {
	stem := textutil.StemName(path)
	result := FileResult{
		Source:       path,
		AcceptedPath: r.cfg.OutputPath(stem + AcceptedSuffix),
		RejectedPath: r.cfg.OutputPath(stem + RejectedSuffix),
	}

	candidates, rows, err := ReadCandidates(ctx, path)
	if err != nil {
		return result, err
	}
	result.Rows = rows
	result.Candidates = len(candidates)
	r.logger.Info("name list loaded",
		logging.String(logging.FieldSource, path),
		logging.Int("rows", rows),
		logging.Int("candidates", len(candidates)),
	)

	resolutions, err := r.store.Resolve(ctx, candidates)
	if err != nil {
		return result, err
	}

	reports, err := CreateReportFiles(result.AcceptedPath, result.RejectedPath)
	if err != nil {
		return result, err
	}
	for _, res := range resolutions {
		d := Decide(res)
		if d.Accepted {
			result.Accepted++
		} else {
			result.Rejected++
		}
		if err := reports.Write(d); err != nil {
			reports.Abort()
			return result, err
		}
	}
	if err := reports.Close(); err != nil {
		return result, err
	}

	r.logger.Info("name list matched",
		logging.String(logging.FieldSource, path),
		logging.Int("accepted", result.Accepted),
		logging.Int("rejected", result.Rejected),
	)
	return result, nil
}

// ReadCandidates expands every row of a name list into one candidate per
// (name, ISBN) combination, tagged with the row's proprietary identifier.
// Rows lacking a name or an ISBN contribute nothing.
func ReadCandidates(ctx context.Context, path string) ([]graph.Candidate, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var (
		candidates []graph.Candidate
		rows       int
	)
	err = sources.ReadTSV(ctx, file, func(row sources.TSVRow) error {
		rows++
		proprietary := row.Proprietary()
		for _, name := range row.Result.Names {
			for _, isbn := range row.Result.ISBNs {
				candidates = append(candidates, graph.Candidate{Name: name, ISBN: isbn, Proprietary: proprietary})
			}
		}
		return nil
	})
	if err != nil {
		return nil, rows, err
	}
	return candidates, rows, nil
}
