// Package runner orchestrates a full pass: preflight, feed indexing, the
// manifest scan, per-item reconciliation, and relocation of accepted addons.
//
// The manifest list is snapshotted before any item is processed, so moves
// performed mid-run never change what the run iterates over. Apply runs hold
// a file lock for their duration; dry runs are lock-free since they never
// mutate anything.
package runner
