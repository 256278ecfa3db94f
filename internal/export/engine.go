package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"darkroom/internal/dirlock"
	"darkroom/internal/fileutil"
	"darkroom/internal/hostexport"
	"darkroom/internal/logging"
	"darkroom/internal/photos"
	"darkroom/internal/services"
)

// Engine exports asset files. It holds no per-export state and is safe for
// concurrent use.
type Engine struct {
	resolver *photos.Resolver
	namer    *Namer
	host     hostexport.Exporter
	copyFile func(src, dst string) error
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	logger *slog.Logger
	locks  *dirlock.Locker
	host   hostexport.Exporter
	verify bool
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) { c.logger = logger }
}

// WithLocker shares a directory locker, typically one backed by a lock
// directory so separate processes serialize too.
func WithLocker(locks *dirlock.Locker) EngineOption {
	return func(c *engineConfig) { c.locks = locks }
}

// WithHostExporter replaces the osascript host exporter.
func WithHostExporter(host hostexport.Exporter) EngineOption {
	return func(c *engineConfig) { c.host = host }
}

// WithVerifiedCopy re-hashes every copied file with BLAKE3.
func WithVerifiedCopy(verify bool) EngineOption {
	return func(c *engineConfig) { c.verify = verify }
}

// NewEngine builds an Engine around resolver. A nil resolver gets the default
// stat-probing one.
func NewEngine(resolver *photos.Resolver, opts ...EngineOption) *Engine {
	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if resolver == nil {
		resolver = photos.NewResolver(photos.WithLogger(cfg.logger))
	}
	if cfg.host == nil {
		cfg.host = hostexport.New(hostexport.WithLogger(cfg.logger))
	}
	copyFile := fileutil.CopyFile
	if cfg.verify {
		copyFile = fileutil.CopyFileVerified
	}
	return &Engine{
		resolver: resolver,
		namer:    NewNamer(cfg.locks),
		host:     cfg.host,
		copyFile: copyFile,
		logger:   logging.NewComponentLogger(cfg.logger, "export"),
	}
}

// Resolver exposes the engine's path resolver.
func (e *Engine) Resolver() *photos.Resolver {
	return e.resolver
}

// Export copies the requested variant of asset into destDir and returns the
// absolute destination path. When a sidecar cannot be written the media file
// is kept, its path is returned alongside a *services.PartialExportError.
func (e *Engine) Export(ctx context.Context, asset *photos.AssetRecord, destDir string, opts Options) (string, error) {
	out, err := e.ExportAll(ctx, asset, destDir, opts)
	return out.Path, err
}

// ExportAll is Export but also reports the companion video and sidecars.
func (e *Engine) ExportAll(ctx context.Context, asset *photos.AssetRecord, destDir string, opts Options) (Outcome, error) {
	if asset == nil {
		return Outcome{}, services.Wrap(services.ErrInvalidOptions, "export", "validate", "asset required", nil)
	}
	variant := photos.VariantOriginal
	if opts.Edited {
		variant = photos.VariantEdited
	}
	ctx = services.WithAssetID(ctx, asset.UUID)
	ctx = services.WithVariant(ctx, variant.String())
	logger := logging.WithContext(ctx, e.logger)

	policy, err := PolicyFromFlags(opts.Overwrite, opts.Increment)
	if err != nil {
		return Outcome{}, err
	}

	dir, err := validateDestination(destDir)
	if err != nil {
		return Outcome{}, err
	}

	var editedPath string
	if opts.Edited {
		var ok bool
		editedPath, ok = e.resolver.PathEdited(asset)
		if !ok {
			return Outcome{}, services.Wrap(services.ErrSourceNotFound, "export", "resolve",
				fmt.Sprintf("asset %s has no edited file (has adjustments: %t)", asset.UUID, asset.Flags.HasAdjustments), nil)
		}
	}

	name, err := targetName(asset, opts, editedPath)
	if err != nil {
		return Outcome{}, err
	}
	stem, suffix := splitName(name)

	res, err := e.namer.Reserve(ctx, dir, stem, suffix, policy)
	if err != nil {
		return Outcome{}, err
	}
	logger.Debug("destination reserved",
		logging.Destination(res.Path),
		logging.String("policy", policy.String()),
	)

	if err := e.produce(ctx, asset, variant, editedPath, res.Path, opts); err != nil {
		res.Discard()
		logger.Warn("export failed", logging.Error(err))
		return Outcome{}, err
	}

	out := Outcome{Path: res.Path}
	var partial []error

	if opts.LivePhoto {
		livePath, err := e.exportLiveCompanion(ctx, asset, res.Path, policy, logger)
		if err != nil {
			partial = append(partial, err)
		}
		out.LivePath = livePath
	}

	sidecars, err := writeSidecars(asset, res.Path, opts)
	out.Sidecars = sidecars
	if err != nil {
		partial = append(partial, err)
	}

	if len(partial) > 0 {
		err := &services.PartialExportError{Path: res.Path, Err: errors.Join(partial...)}
		logger.Warn("export incomplete", logging.Error(err))
		return out, err
	}

	logger.Info("exported", logging.Destination(res.Path))
	return out, nil
}

// produce writes the media bytes to dest, either by copying the resolved
// source or by delegating to the host application.
func (e *Engine) produce(ctx context.Context, asset *photos.AssetRecord, variant photos.Variant, editedPath, dest string, opts Options) error {
	if opts.UseHostExport {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultHostTimeout
		}
		if _, err := e.host.Export(ctx, asset.UUID, dest, variant, timeout); err != nil {
			if errors.Is(err, services.ErrCopyFailed) {
				return err
			}
			return services.Wrap(services.ErrCopyFailed, "export", "host export", asset.UUID, err)
		}
		return nil
	}

	src := editedPath
	if variant == photos.VariantOriginal {
		var ok bool
		src, ok = e.resolver.Path(asset)
		if !ok {
			return services.Wrap(services.ErrSourceNotFound, "export", "resolve",
				fmt.Sprintf("asset %s has no original on disk (missing: %t)", asset.UUID, asset.Flags.Missing), nil)
		}
	}
	if !isRegularFile(src) {
		return services.Wrap(services.ErrSourceNotFound, "export", "resolve",
			fmt.Sprintf("%s does not appear to exist", src), nil)
	}
	if err := e.copyFile(src, dest); err != nil {
		return services.Wrap(services.ErrCopyFailed, "export", "copy", src, err)
	}
	return nil
}

// exportLiveCompanion copies the companion video to <stem>.mov next to
// mainPath. A missing companion or an occupied name is logged, not returned.
func (e *Engine) exportLiveCompanion(ctx context.Context, asset *photos.AssetRecord, mainPath string, policy Policy, logger *slog.Logger) (string, error) {
	src, ok := e.resolver.PathLivePhoto(asset)
	if !ok {
		logger.Info("live photo companion not available")
		return "", nil
	}
	if strings.EqualFold(filepath.Ext(mainPath), ".mov") {
		logger.Warn("live photo companion would replace the exported file; skipping",
			logging.Destination(mainPath),
		)
		return "", nil
	}
	dest := stemPath(mainPath) + ".mov"

	var placeholder bool
	err := e.namer.locks.Do(ctx, filepath.Dir(dest), func() error {
		if policy == PolicyOverwrite {
			return nil
		}
		if err := createPlaceholder(dest); err != nil {
			return err
		}
		placeholder = true
		return nil
	})
	if errors.Is(err, fs.ErrExist) {
		logger.Warn("live photo companion destination exists; skipping",
			logging.Destination(dest),
		)
		return "", nil
	}
	if err != nil {
		return "", services.Wrap(services.ErrCopyFailed, "export", "live companion", dest, err)
	}

	if err := e.copyFile(src, dest); err != nil {
		if placeholder {
			_ = os.Remove(dest)
		}
		return "", services.Wrap(services.ErrCopyFailed, "export", "live companion", src, err)
	}
	logger.Debug("live photo companion exported", logging.Destination(dest))
	return dest, nil
}

func validateDestination(destDir string) (string, error) {
	if strings.TrimSpace(destDir) == "" {
		return "", services.Wrap(services.ErrInvalidDestination, "export", "validate", "destination required", nil)
	}
	abs, err := filepath.Abs(destDir)
	if err != nil {
		return "", services.Wrap(services.ErrInvalidDestination, "export", "validate", destDir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", services.Wrap(services.ErrInvalidDestination, "export", "validate", abs, err)
	}
	if !info.IsDir() {
		return "", services.Wrap(services.ErrInvalidDestination, "export", "validate",
			fmt.Sprintf("%s is not a directory", abs), nil)
	}
	return filepath.Clean(abs), nil
}

// targetName picks the destination file name: the caller's, the asset's, or
// "<stem>_edited<ext of the edited render>".
func targetName(asset *photos.AssetRecord, opts Options, editedPath string) (string, error) {
	name := strings.TrimSpace(opts.Filename)
	if name == "" {
		name = asset.Filename
		if opts.Edited {
			stem, _ := splitName(asset.Filename)
			name = stem + "_edited" + filepath.Ext(editedPath)
		}
	}
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", services.Wrap(services.ErrInvalidOptions, "export", "filename",
			fmt.Sprintf("invalid target file name %q", name), nil)
	}
	return name, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
