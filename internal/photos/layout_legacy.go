package photos

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"darkroom/internal/logging"
)

// legacyLayout resolves libraries from before the Photos 5 layout change.
type legacyLayout struct {
	probe  Prober
	logger *slog.Logger
}

// original trusts the catalog's image path without probing; the legacy
// directory field is authoritative.
func (l legacyLayout) original(a *AssetRecord) (string, bool) {
	if a.Flags.Missing {
		return "", false
	}
	if a.Volume != "" {
		return filepath.Join("/Volumes", a.Volume, a.Directory), true
	}
	return filepath.Join(a.Library.MastersPath, a.Directory), true
}

func (l legacyLayout) edited(a *AssetRecord) (string, bool) {
	if !a.Flags.HasAdjustments {
		return "", false
	}
	if a.EditResourceID == nil {
		l.logger.Debug("asset has adjustments but no edit resource",
			logging.AssetID(a.UUID),
		)
		return "", false
	}
	folderID, fileID := ResourceLocation(*a.EditResourceID)

	var name string
	switch a.Kind {
	case KindPhoto:
		name = "fullsizeoutput_" + fileID + ".jpeg"
	case KindVideo:
		name = "fullsizeoutput_" + fileID + ".mov"
	default:
		l.logger.Debug("unknown media kind for edited render",
			logging.AssetID(a.UUID),
			logging.String("kind", a.Kind.String()),
		)
		return "", false
	}

	root := filepath.Join(a.Library.LibraryPath, "resources", "media", "version", folderID)
	candidate := filepath.Join(root, "00", name)
	if l.probe.IsFile(candidate) {
		return candidate, true
	}
	if found, ok := l.search(root, name); ok {
		return found, true
	}
	logMissing(l.logger, a, VariantEdited, candidate)
	return "", false
}

func (l legacyLayout) liveCompanion(a *AssetRecord) (string, bool) {
	if !a.Flags.LivePhoto || a.Flags.Missing {
		return "", false
	}
	if a.LiveModelID == nil {
		l.logger.Debug("live photo has no live model resource",
			logging.AssetID(a.UUID),
		)
		return "", false
	}
	folderID, fileID := ResourceLocation(*a.LiveModelID)
	candidate := filepath.Join(
		a.Library.LibraryPath, "resources", "media", "master", folderID, "00",
		"jpegvideocomplement_"+fileID+".mov",
	)
	if !l.probe.IsFile(candidate) {
		logMissing(l.logger, a, VariantLiveCompanion, candidate)
		return "", false
	}
	return candidate, true
}

// search walks root at most legacyEditSearchDepth levels deep looking for a
// file named exactly name.
func (l legacyLayout) search(root, name string) (string, bool) {
	var found string
	baseDepth := strings.Count(filepath.Clean(root), string(os.PathSeparator))
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if strings.Count(path, string(os.PathSeparator))-baseDepth >= legacyEditSearchDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == name && l.probe.IsFile(path) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("edited render search failed",
			logging.String("root", root),
			logging.Error(err),
		)
	}
	return found, found != ""
}
