package photos

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// currentLayout resolves Photos 5 and later libraries.
type currentLayout struct {
	probe  Prober
	logger *slog.Logger
}

func (l currentLayout) original(a *AssetRecord) (string, bool) {
	if a.Flags.Missing {
		return "", false
	}
	if a.Flags.Shared {
		return filepath.Join(a.Library.LibraryPath, sharedPhotoPath, a.Directory, a.Filename), true
	}
	if filepath.IsAbs(a.Directory) {
		return filepath.Join(a.Directory, a.Filename), true
	}
	return filepath.Join(a.Library.MastersPath, a.Directory, a.Filename), true
}

// edited renders live under resources/renders/<first char of uuid>.
func (l currentLayout) edited(a *AssetRecord) (string, bool) {
	if !a.Flags.HasAdjustments || a.UUID == "" {
		return "", false
	}
	var name string
	switch a.Kind {
	case KindPhoto:
		name = a.UUID + "_1_201_a.jpeg"
	case KindVideo:
		name = a.UUID + "_2_0_a.mov"
	default:
		return "", false
	}
	candidate := filepath.Join(a.Library.LibraryPath, "resources", "renders", a.UUID[:1], name)
	if !l.probe.IsFile(candidate) {
		logMissing(l.logger, a, VariantEdited, candidate)
		return "", false
	}
	return candidate, true
}

func (l currentLayout) liveCompanion(a *AssetRecord) (string, bool) {
	if !a.Flags.LivePhoto || a.Flags.Missing {
		return "", false
	}
	original, ok := l.original(a)
	if !ok {
		return "", false
	}
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	candidate := filepath.Join(filepath.Dir(original), stem+"_3.mov")
	if !l.probe.IsFile(candidate) {
		logMissing(l.logger, a, VariantLiveCompanion, candidate)
		return "", false
	}
	return candidate, true
}
