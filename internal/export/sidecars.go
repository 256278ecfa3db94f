package export

import (
	"errors"
	"os"

	"darkroom/internal/photos"
	"darkroom/internal/services"
	"darkroom/internal/sidecar"
)

type sidecarKind struct {
	enabled bool
	ext     string
	encode  func(*photos.AssetRecord) ([]byte, error)
}

// writeSidecars writes the requested sidecars next to mediaPath and returns
// the paths it wrote. Every requested sidecar is attempted.
func writeSidecars(asset *photos.AssetRecord, mediaPath string, opts Options) ([]string, error) {
	stem := stemPath(mediaPath)
	kinds := []sidecarKind{
		{enabled: opts.SidecarJSON, ext: ".json", encode: sidecar.ExifToolJSON},
		{enabled: opts.SidecarXMP, ext: ".xmp", encode: sidecar.XMP},
	}

	var written []string
	var errs []error
	for _, kind := range kinds {
		if !kind.enabled {
			continue
		}
		path := stem + kind.ext
		data, err := kind.encode(asset)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		if err != nil {
			errs = append(errs, services.Wrap(services.ErrSidecarWriteFailed, "export", "sidecar", path, err))
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}
