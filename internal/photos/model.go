package photos

import (
	"fmt"
	"strings"
	"time"
)

// Generation identifies the on-disk layout of a library. Generations are
// ordered: every legacy generation sorts before GenerationCurrent.
type Generation int

const (
	// GenerationLegacy covers libraries created before the Photos 5 layout.
	GenerationLegacy Generation = iota + 1
	// GenerationCurrent covers Photos 5 and later.
	GenerationCurrent
)

func (g Generation) String() string {
	switch g {
	case GenerationLegacy:
		return "legacy"
	case GenerationCurrent:
		return "current"
	default:
		return fmt.Sprintf("generation(%d)", int(g))
	}
}

// ParseGeneration accepts the names produced by Generation.String.
func ParseGeneration(value string) (Generation, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "legacy", "4":
		return GenerationLegacy, nil
	case "current", "5":
		return GenerationCurrent, nil
	default:
		return 0, fmt.Errorf("unknown library generation %q", value)
	}
}

// Kind is the media type recorded in the catalog.
type Kind int

const (
	KindUnknown Kind = iota
	KindPhoto
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// ParseKind maps catalog type labels onto Kind. Unrecognised labels yield KindUnknown.
func ParseKind(value string) Kind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "photo", "image":
		return KindPhoto
	case "video", "movie":
		return KindVideo
	default:
		return KindUnknown
	}
}

// LibraryContext carries the catalog-wide facts every resolution needs. It is
// shared read-only by all assets loaded from one catalog.
type LibraryContext struct {
	Generation  Generation
	LibraryPath string
	MastersPath string
}

// Flags are the boolean catalog attributes that drive resolution.
type Flags struct {
	Missing        bool
	HasAdjustments bool
	Shared         bool
	CloudAsset     bool
	Burst          bool
	LivePhoto      bool
	Favorite       bool
	Hidden         bool
	ExternalEdit   bool
}

// Location is a latitude/longitude pair in decimal degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// AssetRecord is one catalog entry. Records are built by the catalog loader
// and never mutated afterwards.
type AssetRecord struct {
	UUID             string
	Filename         string
	OriginalFilename string
	Kind             Kind
	UTI              string
	Flags            Flags
	BurstUUID        string

	// Directory is the masters-relative image path for legacy libraries and
	// the originals directory (relative or absolute) for current libraries.
	Directory string
	// Volume names an external volume holding a legacy original.
	Volume string
	// EditResourceID and LiveModelID are legacy resource model ids.
	EditResourceID *int64
	LiveModelID    *int64

	// InCloud is nil when the asset is not a cloud asset.
	InCloud *bool

	TimezoneOffset int
	Date           time.Time
	DateModified   *time.Time
	Location       *Location

	Title       string
	Description string
	Keywords    []string
	Persons     []string
	Albums      []string

	Library *LibraryContext
}

// Zone returns the fixed zone derived from the record's UTC offset.
func (a *AssetRecord) Zone() *time.Location {
	return time.FixedZone("", a.TimezoneOffset)
}

// CaptureTime returns the capture timestamp in the asset's own zone.
func (a *AssetRecord) CaptureTime() time.Time {
	return a.Date.In(a.Zone())
}

// ModifiedTime returns the modification timestamp in the asset's zone, if set.
func (a *AssetRecord) ModifiedTime() (time.Time, bool) {
	if a.DateModified == nil || a.DateModified.IsZero() {
		return time.Time{}, false
	}
	return a.DateModified.In(a.Zone()), true
}

func (a *AssetRecord) IsPhoto() bool { return a.Kind == KindPhoto }

func (a *AssetRecord) IsMovie() bool { return a.Kind == KindVideo }

func (a *AssetRecord) generation() Generation {
	if a.Library == nil {
		return 0
	}
	return a.Library.Generation
}
