// Package photos models assets projected from a photo library catalog and
// resolves the files that back them on disk.
//
// The on-disk layout changed between catalog generations. Legacy libraries
// keep originals under a masters tree (or an external volume) and renders
// under resources/media; current libraries use an originals tree, a
// first-character fan-out for renders, and sibling files for live photo video.
// Resolver hides that split behind one call per variant and dispatches to a
// layout implementation per generation so the two rule sets never mix.
package photos
