// Package logging builds the slog loggers used across simtagger.
//
// Two handler formats are supported: a pretty console format for interactive
// use and JSON for machine consumption. Output is duplicated to stdout and a
// timestamped per-run log file so every run leaves a complete transcript.
// Attribute helpers keep field construction uniform across packages.
package logging
