package testsupport

import (
	"path/filepath"
	"testing"

	"identigraph/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "Data")
	cfgVal.Paths.Database = filepath.Join(base, "db", "identities_graph.db")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Ingest.Workers = 2
	cfgVal.Ingest.BatchRows = 50
	cfgVal.Ingest.ChunkRecords = 4

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBatchRows overrides the flush threshold.
func WithBatchRows(rows int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.BatchRows = rows
	}
}

// WithWorkers overrides the ingest worker count.
func WithWorkers(workers int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.Workers = workers
	}
}

// WithAttachByISBN toggles the ISBN attach closure step.
func WithAttachByISBN(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Closure.AttachByISBN = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
