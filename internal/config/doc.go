// Package config loads, normalizes, and validates simtagger configuration.
//
// Configuration comes from a TOML file (~/.config/simtagger/config.toml by
// default, with a project-local simtagger.toml fallback) layered over
// repository defaults. Path fields are tilde-expanded and made absolute during
// normalization, and legacy environment variables (ADDONS_ROOT, FEED_ROOT,
// DEST_ROOT, SPACE_MARGIN_BYTES, ACCEPTED_TAG) fill fields the file leaves
// empty so existing deployments keep working.
//
// Validation only checks internal consistency; whether the configured roots
// actually exist is a runtime preflight concern.
package config
