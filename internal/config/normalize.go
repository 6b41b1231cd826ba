package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSources()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	c.Paths.Database = strings.TrimSpace(c.Paths.Database)
	if c.Paths.Database == "" {
		if value, ok := os.LookupEnv("IDENTIGRAPH_DATABASE"); ok && strings.TrimSpace(value) != "" {
			c.Paths.Database = strings.TrimSpace(value)
		} else {
			c.Paths.Database = defaultDatabase
		}
	}
	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	if c.Paths.OutputDir == "" {
		if value, ok := os.LookupEnv("IDENTIGRAPH_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.OutputDir = strings.TrimSpace(value)
		} else {
			c.Paths.OutputDir = defaultOutputDir
		}
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSources() {
	fields := []struct {
		value    *string
		fallback string
	}{
		{&c.Sources.BNB, defaultBNBPattern},
		{&c.Sources.NACO, defaultNACOPattern},
		{&c.Sources.VIAF, defaultVIAFPattern},
		{&c.Sources.VIAFLinks, defaultLinksPattern},
		{&c.Sources.TSV, defaultTSVPattern},
		{&c.Sources.ISBN, defaultISBNPattern},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			*f.value = f.fallback
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
