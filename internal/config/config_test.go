package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"identigraph/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("IDENTIGRAPH_DATABASE", "")
	t.Setenv("IDENTIGRAPH_OUTPUT_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDB := filepath.Join(tempHome, ".local", "share", "identigraph", "identities_graph.db")
	if cfg.Paths.Database != wantDB {
		t.Fatalf("unexpected database: got %q want %q", cfg.Paths.Database, wantDB)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, ".local", "share", "identigraph", "output") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected absolute data dir, got %q", cfg.Paths.DataDir)
	}
	if cfg.Ingest != config.Default().Ingest {
		t.Fatalf("unexpected ingest defaults: %+v", cfg.Ingest)
	}
	if !cfg.Closure.AttachByISBN {
		t.Fatal("expected ISBN attachment enabled by default")
	}
	if cfg.Export.Parquet {
		t.Fatal("expected parquet export disabled by default")
	}
	if cfg.Logging.Format != "auto" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{filepath.Dir(cfg.Paths.Database), cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadUsesEnvironmentFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	dbPath := filepath.Join(tempHome, "graphs", "test.db")
	t.Setenv("IDENTIGRAPH_DATABASE", dbPath)
	t.Setenv("IDENTIGRAPH_OUTPUT_DIR", "~/reports")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.Database != dbPath {
		t.Fatalf("expected database from env, got %q", cfg.Paths.Database)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "reports") {
		t.Fatalf("expected output dir from env, got %q", cfg.Paths.OutputDir)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "identigraph.toml")
	t.Setenv("IDENTIGRAPH_DATABASE", "/ignored/by/file.db")

	type payload struct {
		Paths struct {
			DataDir  string `toml:"data_dir"`
			Database string `toml:"database"`
		} `toml:"paths"`
		Sources struct {
			TSV string `toml:"tsv"`
		} `toml:"sources"`
		Ingest struct {
			Workers   int `toml:"workers"`
			BatchRows int `toml:"batch_rows"`
		} `toml:"ingest"`
		Closure struct {
			AttachByISBN bool `toml:"attach_by_isbn"`
		} `toml:"closure"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "inputs")
	custom.Paths.Database = filepath.Join(tempDir, "graph.db")
	custom.Sources.TSV = "lists/*.txt"
	custom.Ingest.Workers = 2
	custom.Ingest.BatchRows = 10
	custom.Closure.AttachByISBN = false
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Paths.Database != custom.Paths.Database {
		t.Fatalf("unexpected database: %q", cfg.Paths.Database)
	}
	if cfg.Ingest.Workers != 2 || cfg.Ingest.BatchRows != 10 {
		t.Fatalf("unexpected ingest settings: %+v", cfg.Ingest)
	}
	if cfg.Ingest.QueueDepth != config.Default().Ingest.QueueDepth {
		t.Fatalf("expected unset queue depth to keep default, got %d", cfg.Ingest.QueueDepth)
	}
	if cfg.Closure.AttachByISBN {
		t.Fatal("expected ISBN attachment disabled by file")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}

	pattern, err := cfg.SourcePattern(config.SourceTSV)
	if err != nil {
		t.Fatalf("SourcePattern: %v", err)
	}
	if want := filepath.Join(tempDir, "inputs", "lists", "*.txt"); pattern != want {
		t.Fatalf("unexpected tsv pattern: got %q want %q", pattern, want)
	}
}

func TestValidateRejectsNonPositiveIngest(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "identigraph.toml")
	if err := os.WriteFile(configPath, []byte("[ingest]\nbatch_rows = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "ingest.batch_rows must be positive") {
		t.Fatalf("expected batch_rows validation error, got %v", err)
	}
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown level to be rejected")
	}
}

func TestSourceFiles(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	for _, name := range []string{"b-bnb.mrc", "a-bnb.mrc", "notes.txt"} {
		path := filepath.Join(tempDir, "BNB", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tempDir, "BNB", "dir-bnb.mrc"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg := config.Default()
	cfg.Paths.DataDir = tempDir
	files, err := cfg.SourceFiles(config.SourceBNB)
	if err != nil {
		t.Fatalf("SourceFiles: %v", err)
	}
	want := []string{filepath.Join(tempDir, "BNB", "a-bnb.mrc"), filepath.Join(tempDir, "BNB", "b-bnb.mrc")}
	if len(files) != len(want) || files[0] != want[0] || files[1] != want[1] {
		t.Fatalf("SourceFiles() = %v, want %v", files, want)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	path := filepath.Join(tempDir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Ingest.Workers != 4 || !cfg.Export.Summary {
		t.Fatalf("unexpected sample values: %+v %+v", cfg.Ingest, cfg.Export)
	}
}
