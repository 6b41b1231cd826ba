package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	Database  string `toml:"database"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Sources contains glob patterns for each input kind. Relative patterns are
// resolved against Paths.DataDir.
type Sources struct {
	BNB       string `toml:"bnb"`
	NACO      string `toml:"naco"`
	VIAF      string `toml:"viaf"`
	VIAFLinks string `toml:"viaf_links"`
	TSV       string `toml:"tsv"`
	ISBN      string `toml:"isbn"`
}

// Ingest controls parallelism and batching of source ingestion.
type Ingest struct {
	// Workers is the number of source files decoded concurrently.
	Workers int `toml:"workers"`
	// QueueDepth bounds the number of edge chunks waiting for the writer.
	QueueDepth int `toml:"queue_depth"`
	// BatchRows is the number of buffered edges that triggers a flush.
	BatchRows int `toml:"batch_rows"`
	// ChunkRecords is the number of records a worker groups into one chunk.
	ChunkRecords int `toml:"chunk_records"`
}

// Closure controls the cross-reference pass.
type Closure struct {
	AttachByISBN bool `toml:"attach_by_isbn"`
}

// Export controls the optional export artifacts.
type Export struct {
	Parquet bool `toml:"parquet"`
	Summary bool `toml:"summary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for identigraph.
//
// Configuration sections by subsystem:
//   - Paths: data, database, output and log locations
//   - Sources: glob patterns per input kind
//   - Ingest: worker pool and flush thresholds
//   - Closure: optional cross-reference steps
//   - Export: optional export artifacts
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Sources Sources `toml:"sources"`
	Ingest  Ingest  `toml:"ingest"`
	Closure Closure `toml:"closure"`
	Export  Export  `toml:"export"`
	Logging Logging `toml:"logging"`
}

// SourceKind names an input kind with a configured glob pattern.
type SourceKind string

const (
	SourceBNB       SourceKind = "bnb"
	SourceNACO      SourceKind = "naco"
	SourceVIAF      SourceKind = "viaf"
	SourceVIAFLinks SourceKind = "viaf_links"
	SourceTSV       SourceKind = "tsv"
	SourceISBN      SourceKind = "isbn"
)

// SourceKinds lists every input kind in ingestion order.
var SourceKinds = []SourceKind{SourceBNB, SourceNACO, SourceVIAF, SourceVIAFLinks, SourceTSV, SourceISBN}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/identigraph/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("identigraph.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the database, output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{filepath.Dir(c.Paths.Database), c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SourcePattern returns the absolute glob pattern configured for kind.
func (c *Config) SourcePattern(kind SourceKind) (string, error) {
	var pattern string
	switch kind {
	case SourceBNB:
		pattern = c.Sources.BNB
	case SourceNACO:
		pattern = c.Sources.NACO
	case SourceVIAF:
		pattern = c.Sources.VIAF
	case SourceVIAFLinks:
		pattern = c.Sources.VIAFLinks
	case SourceTSV:
		pattern = c.Sources.TSV
	case SourceISBN:
		pattern = c.Sources.ISBN
	default:
		return "", fmt.Errorf("unknown source kind %q", kind)
	}
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(c.Paths.DataDir, pattern)
	}
	return pattern, nil
}

// SourceFiles expands the configured pattern for kind into a sorted list of
// existing files.
func (c *Config) SourceFiles(kind SourceKind) ([]string, error) {
	pattern, err := c.SourcePattern(kind)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("sources.%s: %w", kind, err)
	}
	files := matches[:0]
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			files = append(files, match)
		}
	}
	slices.Sort(files)
	return files, nil
}

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
