// Package hostexport delegates an export to the Photos application through
// osascript. The automation is treated as a black box: it receives an asset
// identifier, a variant selector, and a timeout, and either yields a file or
// fails. The child process is killed when the timeout expires.
package hostexport
