package testsupport

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"darkroom/internal/photos"
)

// Library is an on-disk fixture laid out like a photo library of one
// generation. Files are only created when a test asks for them.
type Library struct {
	t       testing.TB
	Context *photos.LibraryContext
}

// NewLibrary creates an empty library bundle of the given generation in a
// temp directory.
func NewLibrary(t testing.TB, gen photos.Generation) *Library {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Test.photoslibrary")
	masters := filepath.Join(root, "originals")
	if gen == photos.GenerationLegacy {
		masters = filepath.Join(root, "Masters")
	}
	return &Library{
		t: t,
		Context: &photos.LibraryContext{
			Generation:  gen,
			LibraryPath: root,
			MastersPath: masters,
		},
	}
}

// Root returns the library bundle path.
func (l *Library) Root() string {
	return l.Context.LibraryPath
}

// Photo returns a photo record with the directory field laid out for the
// library's generation. Nothing is written to disk.
func (l *Library) Photo(uuid, originalName string) *photos.AssetRecord {
	ext := filepath.Ext(originalName)
	asset := &photos.AssetRecord{
		UUID:             uuid,
		OriginalFilename: originalName,
		Kind:             photos.KindPhoto,
		UTI:              "public.jpeg",
		TimezoneOffset:   -4 * 3600,
		Date:             time.Date(2018, 9, 28, 19, 35, 49, 0, time.UTC),
		Library:          l.Context,
	}
	if l.Context.Generation == photos.GenerationLegacy {
		asset.Filename = originalName
		asset.Directory = filepath.Join("2018", "09", "28", "20180928-153549", originalName)
	} else {
		asset.Filename = uuid + strings.ToLower(ext)
		asset.Directory = uuid[:1]
	}
	return asset
}

// Video is Photo with the video kind.
func (l *Library) Video(uuid, originalName string) *photos.AssetRecord {
	asset := l.Photo(uuid, originalName)
	asset.Kind = photos.KindVideo
	asset.UTI = "com.apple.quicktime-movie"
	return asset
}

// AddOriginal writes content where the resolver expects asset's original.
func (l *Library) AddOriginal(asset *photos.AssetRecord, content string) string {
	l.t.Helper()
	path, ok := photos.NewResolver().Path(asset)
	if !ok {
		l.t.Fatalf("asset %s has no original location", asset.UUID)
	}
	WriteText(l.t, path, content)
	return path
}

// AddEdited marks asset as adjusted and writes its edited render.
func (l *Library) AddEdited(asset *photos.AssetRecord, content string) string {
	l.t.Helper()
	asset.Flags.HasAdjustments = true
	var path string
	if l.Context.Generation == photos.GenerationLegacy {
		if asset.EditResourceID == nil {
			id := int64(0x1a2b)
			asset.EditResourceID = &id
		}
		folder, file := photos.ResourceLocation(*asset.EditResourceID)
		path = filepath.Join(l.Root(), "resources", "media", "version", folder, "00", "fullsizeoutput_"+file+editedExt(asset))
	} else {
		suffix := "_1_201_a.jpeg"
		if asset.Kind == photos.KindVideo {
			suffix = "_2_0_a.mov"
		}
		path = filepath.Join(l.Root(), "resources", "renders", asset.UUID[:1], asset.UUID+suffix)
	}
	WriteText(l.t, path, content)
	return path
}

// AddLiveCompanion marks asset as a live photo and writes its video.
func (l *Library) AddLiveCompanion(asset *photos.AssetRecord, content string) string {
	l.t.Helper()
	asset.Flags.LivePhoto = true
	var path string
	if l.Context.Generation == photos.GenerationLegacy {
		if asset.LiveModelID == nil {
			id := int64(0x2c3d)
			asset.LiveModelID = &id
		}
		folder, file := photos.ResourceLocation(*asset.LiveModelID)
		path = filepath.Join(l.Root(), "resources", "media", "master", folder, "00", "jpegvideocomplement_"+file+".mov")
	} else {
		original, ok := photos.NewResolver().Path(asset)
		if !ok {
			l.t.Fatalf("asset %s has no original location", asset.UUID)
		}
		stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
		path = filepath.Join(filepath.Dir(original), stem+"_3.mov")
	}
	WriteText(l.t, path, content)
	return path
}

func editedExt(asset *photos.AssetRecord) string {
	if asset.Kind == photos.KindVideo {
		return ".mov"
	}
	return ".jpeg"
}
