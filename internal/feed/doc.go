// Package feed loads catalog dumps and builds the (identifier, version)
// lookup that reconciliation matches manifests against.
//
// Each feed source is one JSON file holding either a bare list of records or
// an object wrapping the list under "items". Sources are processed in
// lexicographic name order so a dated naming convention controls override
// precedence: a key present in two sources resolves to the later one's tag.
// Malformed sources and elements are logged and skipped; they never fail the
// build.
package feed
