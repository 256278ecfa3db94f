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
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(libraryEnvVar); ok && strings.TrimSpace(value) != "" {
		c.Paths.Library = strings.TrimSpace(value)
	}

	fields := []struct {
		key   string
		value *string
	}{
		{"paths.library", &c.Paths.Library},
		{"paths.catalog", &c.Paths.Catalog},
		{"paths.export_dir", &c.Paths.ExportDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.lock_dir", &c.Paths.LockDir},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeExport() {
	if c.Export.HostTimeoutSeconds <= 0 {
		c.Export.HostTimeoutSeconds = defaultHostTimeoutSeconds
	}
	if c.Export.Workers <= 0 {
		c.Export.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
