package photos

import (
	"log/slog"
	"os"

	"darkroom/internal/logging"
)

const (
	// sharedPhotoPath is the library-relative root of shared-album originals.
	sharedPhotoPath = "resources/cloudsharing/data"
	// legacyEditSearchDepth bounds the fallback walk for legacy renders.
	legacyEditSearchDepth = 4
)

// Prober reports whether a candidate path names an existing regular file.
type Prober interface {
	IsFile(path string) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(path string) bool

func (f ProberFunc) IsFile(path string) bool { return f(path) }

type statProber struct{}

func (statProber) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// layout holds the path rules of one library generation.
type layout interface {
	original(a *AssetRecord) (string, bool)
	edited(a *AssetRecord) (string, bool)
	liveCompanion(a *AssetRecord) (string, bool)
}

// Resolver maps asset records onto the files that back them.
type Resolver struct {
	logger  *slog.Logger
	layouts map[Generation]layout
}

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	logger *slog.Logger
	prober Prober
}

// WithLogger attaches a logger for resolution decisions.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(c *resolverConfig) {
		c.logger = logger
	}
}

// WithProber replaces the filesystem existence probe (primarily for tests).
func WithProber(p Prober) ResolverOption {
	return func(c *resolverConfig) {
		if p != nil {
			c.prober = p
		}
	}
}

// NewResolver constructs a resolver with the default stat-based probe.
func NewResolver(opts ...ResolverOption) *Resolver {
	cfg := resolverConfig{prober: statProber{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := logging.NewComponentLogger(cfg.logger, "resolver")
	return &Resolver{
		logger: logger,
		layouts: map[Generation]layout{
			GenerationLegacy:  legacyLayout{probe: cfg.prober, logger: logger},
			GenerationCurrent: currentLayout{probe: cfg.prober, logger: logger},
		},
	}
}

// Resolve returns the absolute path of the requested variant. ok is false when
// the variant does not apply to the asset or its file is not on disk.
func (r *Resolver) Resolve(a *AssetRecord, v Variant) (path string, ok bool) {
	if a == nil {
		return "", false
	}
	l, found := r.layouts[a.generation()]
	if !found {
		r.logger.Debug("asset has no library context",
			logging.AssetID(a.UUID),
		)
		return "", false
	}
	switch v {
	case VariantOriginal:
		return l.original(a)
	case VariantEdited:
		return l.edited(a)
	case VariantLiveCompanion:
		return l.liveCompanion(a)
	default:
		return "", false
	}
}

// Path resolves the original variant.
func (r *Resolver) Path(a *AssetRecord) (string, bool) {
	return r.Resolve(a, VariantOriginal)
}

// PathEdited resolves the edited variant.
func (r *Resolver) PathEdited(a *AssetRecord) (string, bool) {
	return r.Resolve(a, VariantEdited)
}

// PathLivePhoto resolves the live photo companion video.
func (r *Resolver) PathLivePhoto(a *AssetRecord) (string, bool) {
	return r.Resolve(a, VariantLiveCompanion)
}

func logMissing(logger *slog.Logger, a *AssetRecord, v Variant, candidate string) {
	logger.Debug("candidate path not on disk",
		logging.AssetID(a.UUID),
		logging.String(logging.FieldVariant, v.String()),
		logging.String("candidate", candidate),
	)
}
