// Package export copies resolved asset files into a destination directory.
//
// The Engine validates the destination, picks a collision-safe name under a
// per-directory critical section, copies the bytes (or delegates to the host
// application), and writes the optional JSON and XMP sidecars next to the
// result. Batch fans exports out over a bounded worker pool.
package export
