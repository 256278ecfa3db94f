package photos_test

import (
	"testing"
	"time"

	"darkroom/internal/photos"
	"darkroom/internal/testsupport"
)

func TestSummarizeCurrent(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationCurrent)
	asset := lib.Photo("D79B8D77-BFFC-460B-9312-034F2877D35B", "Pumkins2.jpg")
	asset.Title = "I found one!"
	asset.Keywords = []string{"Kids"}
	asset.Location = &photos.Location{Latitude: 41.256566, Longitude: -95.940257}
	modified := time.Date(2019, 7, 27, 3, 4, 5, 0, time.UTC)
	asset.DateModified = &modified
	lib.AddOriginal(asset, "jpeg")

	s := photos.NewResolver().Summarize(asset)
	if s.Path == nil || s.PathEdited != nil || s.PathLivePhoto != nil {
		t.Fatalf("unexpected path fields: %v %v %v", s.Path, s.PathEdited, s.PathLivePhoto)
	}
	if s.Date != "2018-09-28T15:35:49-04:00" {
		t.Fatalf("expected date in asset zone, got %q", s.Date)
	}
	if s.DateModified == nil || *s.DateModified != "2019-07-26T23:04:05-04:00" {
		t.Fatalf("unexpected modified date %v", s.DateModified)
	}
	if s.Shared == nil || *s.Shared {
		t.Fatal("expected shared=false reported for current libraries")
	}
	if s.Latitude == nil || *s.Latitude != 41.256566 {
		t.Fatal("expected latitude")
	}
	if !s.IsPhoto || s.IsMovie {
		t.Fatal("unexpected kind flags")
	}
}

func TestSummarizeLegacyOmitsShared(t *testing.T) {
	lib := testsupport.NewLibrary(t, photos.GenerationLegacy)
	asset := lib.Photo("A1", "IMG_0001.JPG")
	asset.Flags.Missing = true

	s := photos.NewResolver().Summarize(asset)
	if s.Shared != nil {
		t.Fatal("legacy libraries do not report shared")
	}
	if s.Path != nil || !s.IsMissing {
		t.Fatal("missing asset must have nil path")
	}
	if s.Latitude != nil || s.DateModified != nil {
		t.Fatal("unset optional fields must stay nil")
	}
}
