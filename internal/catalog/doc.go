// Package catalog persists projected asset records in a SQLite snapshot.
//
// The snapshot is the hand-off point between whatever reads the vendor
// library database and the exporter: it holds one library row describing
// the generation and bundle paths, plus one row per asset with its keywords,
// persons, and albums in child tables. Records come back as
// photos.AssetRecord values bound to the shared library context, ready for
// the resolver.
package catalog
