// Package manifest discovers and parses installed package manifests and
// rewrites their tag field.
//
// Discovery walks the addons root and collects every manifest.json path as a
// complete batch before any record is processed, so later directory moves
// cannot disturb the enumeration. Rewrites go through a temp file and rename
// in the owning directory; a manifest is never left half-written.
package manifest
