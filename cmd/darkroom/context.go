package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"darkroom/internal/catalog"
	"darkroom/internal/config"
	"darkroom/internal/dirlock"
	"darkroom/internal/export"
	"darkroom/internal/hostexport"
	"darkroom/internal/logging"
	"darkroom/internal/photos"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	catalogOnce sync.Once
	catalog     *catalog.Store
	catalogErr  error
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
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
				if err := cfg.Validate(); err != nil {
					c.configErr = err
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
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureCatalog() (*catalog.Store, error) {
	c.catalogOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.catalogErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.catalogErr = err
			return
		}
		store, err := catalog.Open(cfg.Paths.Catalog, catalog.WithLogger(logger))
		if err != nil {
			c.catalogErr = fmt.Errorf("open catalog: %w", err)
			return
		}
		c.catalog = store
	})
	return c.catalog, c.catalogErr
}

// newEngine builds an export engine that serializes naming through the
// configured lock directory, so concurrent darkroom processes agree too.
func (c *commandContext) newEngine() (*export.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return export.NewEngine(
		photos.NewResolver(photos.WithLogger(logger)),
		export.WithLogger(logger),
		export.WithLocker(dirlock.New(cfg.Paths.LockDir)),
		export.WithHostExporter(hostexport.New(hostexport.WithLogger(logger))),
		export.WithVerifiedCopy(cfg.Export.VerifyCopy),
	), nil
}

// loadAssets returns the named assets in argument order, or every asset in
// the catalog when uuids is empty.
func (c *commandContext) loadAssets(ctx context.Context, uuids []string) ([]*photos.AssetRecord, error) {
	store, err := c.ensureCatalog()
	if err != nil {
		return nil, err
	}
	if len(uuids) == 0 {
		return store.List(ctx)
	}
	assets := make([]*photos.AssetRecord, 0, len(uuids))
	for _, uuid := range uuids {
		asset, err := store.Get(ctx, strings.TrimSpace(uuid))
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (c *commandContext) close() error {
	if c.catalog == nil {
		return nil
	}
	err := c.catalog.Close()
	c.catalog = nil
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

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
