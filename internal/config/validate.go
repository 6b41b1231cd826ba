package config

import (
	"fmt"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateIngest() error {
	return ensurePositiveMap(map[string]int{
		"ingest.workers":       c.Ingest.Workers,
		"ingest.queue_depth":   c.Ingest.QueueDepth,
		"ingest.batch_rows":    c.Ingest.BatchRows,
		"ingest.chunk_records": c.Ingest.ChunkRecords,
	})
}

func (c *Config) validateLogging() error {
	levels := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(levels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
