// Package sidecar renders metadata sidecars for exported assets.
//
// Two independent encodings are produced from an asset record: an exiftool
// compatible JSON document (a single-element array that `exiftool -j` can
// import) and an XMP packet that mirrors the fields the Photos application
// writes when exporting IPTC as XMP. Neither encoder touches the filesystem;
// callers decide where the bytes land.
package sidecar
