package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"identigraph/internal/fileutil"
	"identigraph/internal/graph"
)

// SummaryFileName is the YAML export summary.
const SummaryFileName = "export_summary.yaml"

// Artifact is one file produced by an export.
type Artifact struct {
	Name            string `json:"name" yaml:"name"`
	Rows            int64  `json:"rows" yaml:"rows"`
	fileutil.Digest `yaml:",inline"`
}

// CleanSummary records what the clean phase changed.
type CleanSummary struct {
	Closure graph.ClosureStats `yaml:"closure"`
	Purged  int64              `yaml:"purged_null_edges"`
}

// Summary describes one export run.
type Summary struct {
	SessionID   string                `yaml:"session_id,omitempty"`
	GeneratedAt time.Time             `yaml:"generated_at"`
	Database    string                `yaml:"database"`
	OutputDir   string                `yaml:"output_dir"`
	Clean       CleanSummary          `yaml:"clean"`
	Relations   []graph.RelationCount `yaml:"relations"`
	Reports     []Artifact            `yaml:"reports"`
	Parquet     *Artifact             `yaml:"parquet,omitempty"`
}

// WriteSummary marshals s to path.
func WriteSummary(path string, s Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal export summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export summary: %w", err)
	}
	return nil
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read export summary: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse export summary: %w", err)
	}
	return s, nil
}
