package config

const (
	defaultConfigPath         = "~/.config/darkroom/config.toml"
	defaultLibraryPath        = "~/Pictures/Photos Library.photoslibrary"
	defaultCatalogPath        = "~/.local/share/darkroom/catalog.db"
	defaultExportDir          = "~/Pictures/darkroom"
	defaultLogDir             = "~/.local/share/darkroom/logs"
	defaultLockDir            = "~/.local/share/darkroom/locks"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultHostTimeoutSeconds = 120
	defaultWorkers            = 4
	maxWorkers                = 64
	libraryEnvVar             = "DARKROOM_LIBRARY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Library:   defaultLibraryPath,
			Catalog:   defaultCatalogPath,
			ExportDir: defaultExportDir,
			LogDir:    defaultLogDir,
			LockDir:   defaultLockDir,
		},
		Export: Export{
			Increment:          true,
			HostTimeoutSeconds: defaultHostTimeoutSeconds,
			Workers:            defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
