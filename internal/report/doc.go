// Package report defines the closed outcome vocabulary, the per-item report
// records, and the sinks that carry them to the console and the run summary.
//
// The core stages write structured records to a Sink rather than printing, so
// output destinations stay swappable in tests and alternative frontends.
package report
