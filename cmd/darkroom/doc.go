// Command darkroom exports original, edited, and live photo files from a
// photo library snapshot into plain directories, with optional metadata
// sidecars.
//
// The CLI reads asset records from the SQLite catalog named in the config
// file, resolves their on-disk paths for the library's generation, and copies
// them without ever overwriting an existing file unless asked to.
package main
