// Package services defines shared utilities consumed by the resolver, the
// export engine and the external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp asset identifiers, variants, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so every export failure
//     can be classified with errors.Is regardless of how deep it was raised.
//
// Use these helpers when wiring new export logic so error handling and
// observability stay uniform across the pipeline.
package services
