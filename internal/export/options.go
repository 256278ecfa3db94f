package export

import "time"

// DefaultHostTimeout bounds a delegated host export when Options.Timeout is unset.
const DefaultHostTimeout = 120 * time.Second

// Options controls a single export.
type Options struct {
	// Filename overrides the destination file name.
	Filename string
	// Edited exports the edited render instead of the original.
	Edited bool
	// Overwrite and Increment select the collision policy; they are mutually
	// exclusive. With neither set an existing target fails the export.
	Overwrite bool
	Increment bool
	// SidecarJSON and SidecarXMP write <stem>.json and <stem>.xmp next to the
	// exported file.
	SidecarJSON bool
	SidecarXMP  bool
	// LivePhoto also copies the live photo companion video to <stem>.mov.
	LivePhoto bool
	// UseHostExport asks the Photos application to produce the file.
	UseHostExport bool
	// Timeout bounds UseHostExport.
	Timeout time.Duration
}

// DefaultOptions returns increment-on-collision with the default host timeout.
func DefaultOptions() Options {
	return Options{Increment: true, Timeout: DefaultHostTimeout}
}

// Outcome lists every file an export produced.
type Outcome struct {
	Path     string
	LivePath string
	Sidecars []string
}
