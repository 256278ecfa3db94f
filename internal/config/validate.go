package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Catalog) == "" {
		return errors.New("paths.catalog must be set")
	}
	if strings.TrimSpace(c.Paths.LockDir) != "" {
		if err := ensureWritableDir(c.Paths.LockDir); err != nil {
			return fmt.Errorf("paths.lock_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.Overwrite && c.Export.Increment {
		return errors.New("export.overwrite and export.increment are mutually exclusive")
	}
	if c.Export.HostTimeoutSeconds <= 0 {
		return errors.New("export.host_timeout_seconds must be positive")
	}
	if c.Export.Workers <= 0 || c.Export.Workers > maxWorkers {
		return fmt.Errorf("export.workers must be between 1 and %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

// ensureWritableDir accepts a missing directory (it is created on demand) but
// rejects an existing path that is not a writable directory.
func ensureWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	return nil
}
