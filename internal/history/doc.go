// Package history persists run records and per-item outcomes in a local
// SQLite database.
//
// Each run gets a row keyed by its generated identifier; every report record
// the run emits is stored against it. The store is optional: when history is
// disabled in configuration the runner simply never opens one.
package history
