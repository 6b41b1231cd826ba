package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"identigraph/internal/config"
	"identigraph/internal/graph"
	"identigraph/internal/logging"
)

type commandContext struct {
	configFlag *string
	logLevel   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	sessionID string
	logger    *logging.Logger
}

func newCommandContext(configFlag, logLevel *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logLevel:   logLevel,
		sessionID:  uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevel != nil && strings.TrimSpace(*c.logLevel) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevel))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loggerFor returns the session logger, writing to the command's stderr and
// mirroring into the configured log directory.
func (c *commandContext) loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger.Logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := logging.OptionsFromConfig(cfg, c.sessionID)
	opts.Output = cmd.ErrOrStderr()
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	c.logger = logger
	return logger.Logger, nil
}

// withStore opens the graph for the duration of fn.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(*config.Config, *graph.Store, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.loggerFor(cmd)
	if err != nil {
		return err
	}
	store, err := graph.Open(cfg)
	if err != nil {
		return fmt.Errorf("open graph: %w", err)
	}
	defer store.Close()
	return fn(cfg, store, logger)
}

func (c *commandContext) close() error {
	if c.logger == nil {
		return nil
	}
	err := c.logger.Close()
	c.logger = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
