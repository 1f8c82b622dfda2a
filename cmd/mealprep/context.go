package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mealprep/internal/config"
	"mealprep/internal/cookbook"
	"mealprep/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
	runID      string
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				switch level {
				case "debug", "info", "warn", "error":
					cfg.Logging.Level = level
				default:
					c.configErr = fmt.Errorf("invalid --log-level %q (want debug, info, warn, or error)", *c.logLevelFlag)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the run logger once per invocation and prunes old log
// files from the configured directory.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.runID = uuid.NewString()
		logger, err := logging.NewFromConfig(cfg, c.runID)
		if err != nil {
			c.loggerErr = fmt.Errorf("create logger: %w", err)
			return
		}
		if dir := cfg.Paths.LogDir; dir != "" {
			logging.PruneLogs(logger, dir, "mealprep*.log", cfg.Logging.RetentionDays, filepath.Join(dir, logging.LogFileName))
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// runContext attaches the run id to the command context so components can
// correlate their records.
func (c *commandContext) runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.runID != "" {
		ctx = logging.WithRunID(ctx, c.runID)
	}
	return ctx
}

// setup returns the config, logger and run context every data command needs.
func (c *commandContext) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, context.Context, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, c.runContext(cmd), nil
}

func (c *commandContext) bookSource(cfg *config.Config) cookbook.Source {
	return cookbook.Source{
		RecipesDir:      cfg.Paths.RecipesDir,
		IngredientsFile: cfg.Paths.IngredientsFile,
	}
}

// loadBook reads the catalog and recipe tree named by the configuration.
func (c *commandContext) loadBook(cmd *cobra.Command) (*cookbook.Book, *config.Config, *slog.Logger, error) {
	cfg, logger, ctx, err := c.setup(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	book, err := cookbook.Load(ctx, c.bookSource(cfg), logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return book, cfg, logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// interactiveInput reports whether in can host a prompt. Readers that are
// not files (replaced input) always qualify; files must be terminals.
func interactiveInput(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return true
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
