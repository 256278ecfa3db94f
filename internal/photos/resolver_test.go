package photos_test

import (
	"path/filepath"
	"sync/atomic"
	"testing"

	"darkroom/internal/photos"
	"darkroom/internal/testsupport"
)

func countingProber(calls *int32) photos.Prober {
	return photos.ProberFunc(func(string) bool {
		atomic.AddInt32(calls, 1)
		return true
	})
}

func TestResolveMissingNeverProbes(t *testing.T) {
	for _, gen := range []photos.Generation{photos.GenerationLegacy, photos.GenerationCurrent} {
		lib := testsupport.NewLibrary(t, gen)
		asset := lib.Photo("8A1B2C3D-0000-4000-8000-000000000001", "IMG_0001.JPG")
		asset.Flags.Missing = true
		asset.Flags.LivePhoto = true

		var calls int32
		r := photos.NewResolver(photos.WithProber(countingProber(&calls)))
		if path, ok := r.Path(asset); ok {
			t.Fatalf("%s: expected absent original, got %q", gen, path)
		}
		if path, ok := r.PathLivePhoto(asset); ok {
			t.Fatalf("%s: expected absent companion, got %q", gen, path)
		}
		if calls != 0 {
			t.Fatalf("%s: prober called %d times", gen, calls)
		}
	}
}

func TestResolveNilAndContextless(t *testing.T) {
	r := photos.NewResolver()
	if _, ok := r.Path(nil); ok {
		t.Fatal("nil asset must not resolve")
	}
	if _, ok := r.Path(&photos.AssetRecord{UUID: "x", Filename: "x.jpg"}); ok {
		t.Fatal("asset without library context must not resolve")
	}
}

func TestCurrentOriginalPaths(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationCurrent)
	r := photos.NewResolver()

	asset := lib.Photo("D79B8D77-BFFC-460B-9312-034F2877D35B", "Pumkins2.jpg")
	path, ok := r.Path(asset)
	want := filepath.Join(lib.Root(), "originals", "D", "D79B8D77-BFFC-460B-9312-034F2877D35B.jpg")
	if !ok || path != want {
		t.Fatalf("expected %q, got %q (%v)", want, path, ok)
	}

	shared := lib.Photo("E1", "shared.jpg")
	shared.Flags.Shared = true
	shared.Directory = "AB12"
	path, _ = r.Path(shared)
	if want := filepath.Join(lib.Root(), "resources", "cloudsharing", "data", "AB12", "E1.jpg"); path != want {
		t.Fatalf("expected shared path %q, got %q", want, path)
	}

	external := lib.Photo("F2", "ref.jpg")
	external.Directory = "/Volumes/Card/DCIM"
	path, _ = r.Path(external)
	if path != "/Volumes/Card/DCIM/F2.jpg" {
		t.Fatalf("expected absolute directory honoured, got %q", path)
	}
}

func TestCurrentEdited(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationCurrent)
	r := photos.NewResolver()

	asset := lib.Photo("8C0A2D1E-0000-4000-8000-000000000002", "IMG_0002.HEIC")
	if _, ok := r.PathEdited(asset); ok {
		t.Fatal("unedited asset must not resolve an edited path")
	}

	asset.Flags.HasAdjustments = true
	if _, ok := r.PathEdited(asset); ok {
		t.Fatal("edited render absent on disk must not resolve")
	}

	written := lib.AddEdited(asset, "render")
	path, ok := r.PathEdited(asset)
	want := filepath.Join(lib.Root(), "resources", "renders", "8", asset.UUID+"_1_201_a.jpeg")
	if !ok || path != want || path != written {
		t.Fatalf("expected %q, got %q (%v)", want, path, ok)
	}

	video := lib.Video("9D", "clip.mov")
	lib.AddEdited(video, "render")
	path, ok = r.PathEdited(video)
	if !ok || filepath.Base(path) != "9D_2_0_a.mov" {
		t.Fatalf("unexpected video render %q (%v)", path, ok)
	}

	odd := lib.Photo("AE", "x.dat")
	odd.Kind = photos.KindUnknown
	odd.Flags.HasAdjustments = true
	if _, ok := r.PathEdited(odd); ok {
		t.Fatal("unknown kind must not resolve an edited path")
	}
}

func TestCurrentLiveCompanion(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationCurrent)
	r := photos.NewResolver()

	asset := lib.Photo("11AA", "IMG_0003.HEIC")
	if _, ok := r.PathLivePhoto(asset); ok {
		t.Fatal("non-live asset must not resolve a companion")
	}
	written := lib.AddLiveCompanion(asset, "motion")
	path, ok := r.PathLivePhoto(asset)
	if !ok || path != written || filepath.Base(path) != "11AA_3.mov" {
		t.Fatalf("unexpected companion %q (%v)", path, ok)
	}
}

func TestLegacyOriginalTrustsCatalog(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationLegacy)
	asset := lib.Photo("6191423D-8DB8-4D4C-92BE-9BBBA308AAC4", "St James Park.jpg")

	var calls int32
	r := photos.NewResolver(photos.WithProber(countingProber(&calls)))
	path, ok := r.Path(asset)
	want := filepath.Join(lib.Root(), "Masters", "2018", "09", "28", "20180928-153549", "St James Park.jpg")
	if !ok || path != want {
		t.Fatalf("expected %q, got %q (%v)", want, path, ok)
	}
	if calls != 0 {
		t.Fatalf("legacy original should not probe, got %d calls", calls)
	}

	asset.Volume = "Archive"
	path, _ = r.Path(asset)
	if want := filepath.Join("/Volumes", "Archive", asset.Directory); path != want {
		t.Fatalf("expected volume path %q, got %q", want, path)
	}
}

func TestLegacyEdited(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationLegacy)
	r := photos.NewResolver()

	asset := lib.Photo("E9BC5C36-7CD1-40A1-A72B-8B8FAC227D51", "Pumkins2.jpg")
	asset.Flags.HasAdjustments = true
	if _, ok := r.PathEdited(asset); ok {
		t.Fatal("adjusted asset without edit resource must not resolve")
	}

	written := lib.AddEdited(asset, "render")
	path, ok := r.PathEdited(asset)
	want := filepath.Join(lib.Root(), "resources", "media", "version", "1a", "00", "fullsizeoutput_1a2b.jpeg")
	if !ok || path != want || path != written {
		t.Fatalf("expected %q, got %q (%v)", want, path, ok)
	}
}

func TestLegacyEditedSearchFallback(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationLegacy)
	r := photos.NewResolver()

	id := int64(0x9f)
	asset := lib.Photo("A0", "IMG_0004.JPG")
	asset.Flags.HasAdjustments = true
	asset.EditResourceID = &id

	moved := filepath.Join(lib.Root(), "resources", "media", "version", "00", "02", "fullsizeoutput_9f.jpeg")
	testsupport.WriteText(t, moved, "render")

	path, ok := r.PathEdited(asset)
	if !ok || path != moved {
		t.Fatalf("expected search to find %q, got %q (%v)", moved, path, ok)
	}
}

func TestLegacyLiveCompanion(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationLegacy)
	r := photos.NewResolver()

	asset := lib.Photo("B1", "IMG_0005.JPG")
	asset.Flags.LivePhoto = true
	if _, ok := r.PathLivePhoto(asset); ok {
		t.Fatal("live photo without model id must not resolve")
	}
	written := lib.AddLiveCompanion(asset, "motion")
	path, ok := r.PathLivePhoto(asset)
	want := filepath.Join(lib.Root(), "resources", "media", "master", "2c", "00", "jpegvideocomplement_2c3d.mov")
	if !ok || path != want || path != written {
		t.Fatalf("expected %q, got %q (%v)", want, path, ok)
	}
}

func TestResolveUnknownVariant(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationCurrent)
	if _, ok := photos.NewResolver().Resolve(lib.Photo("C2", "a.jpg"), photos.Variant(42)); ok {
		t.Fatal("unknown variant must not resolve")
	}
}
