// Package icao derives 4-letter facility identifiers from the heterogeneous
// text sources a package exposes: descriptive text, folder names, titles, and
// URL slugs.
//
// Extraction is a fixed priority chain of strategies; the first one that
// produces a token wins. Feed entries collect the union of title and slug
// tokens when no labeled description token exists, because one entry may have
// to match several installed identifiers. Installed manifests only ever need
// a single best identifier. All identifiers are uppercased.
package icao
