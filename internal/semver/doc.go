// Package semver canonicalizes the loose version strings found in manifests
// and feed titles into comparable major.minor.patch triples.
//
// Accepted inputs may use '.', '_', or '-' as separators, carry a leading
// 'v'/'V', and have one to four numeric components; components beyond the
// third are dropped and missing ones are zero-filled. Two version strings are
// equivalent exactly when their triples are equal.
package semver
