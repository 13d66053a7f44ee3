package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelsmith/internal/config"
	"reelsmith/internal/library"
	"reelsmith/internal/logging"
	"reelsmith/internal/render"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	store *library.Store
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// openStore opens the asset catalog, creating it when absent.
func (c *commandContext) openStore() (*library.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	store, err := library.Open(c.configValue().Paths.LibraryPath)
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

// repository prefers the catalog when one exists and falls back to scanning
// the asset directory.
func (c *commandContext) repository() library.Repository {
	cfg := c.configValue()
	dir := library.Dir{Root: cfg.Paths.AssetDir}
	if _, err := os.Stat(cfg.Paths.LibraryPath); err != nil {
		return dir
	}
	store, err := c.openStore()
	if err != nil {
		logging.WarnWithContext(c.loggerValue(), "asset catalog unavailable; scanning asset_dir", "library_unavailable",
			logging.String("path", cfg.Paths.LibraryPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the catalog and run reelsmith library scan"),
			logging.String(logging.FieldImpact, "clips are chosen from asset_dir only"),
		)
		return dir
	}
	return library.Chain{store, dir}
}

func (c *commandContext) engine() *render.Engine {
	return render.NewEngine(c.configValue(), c.loggerValue(), render.WithRepository(c.repository()))
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
		c.store = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
