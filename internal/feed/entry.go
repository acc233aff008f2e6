package feed

import (
	"strings"

	"simtagger/internal/icao"
	"simtagger/internal/semver"
)

// Entry is one catalog record with its derived match data.
type Entry struct {
	Source      string
	Title       string
	Description string
	PageURL     string
	Tag         string

	// Version is the normalized version derived from the title, empty when
	// the title carries none.
	Version string
	// Codes is the derived identifier set, possibly empty.
	Codes []string
}

// newEntry derives version and identifiers from one raw feed element.
func newEntry(source string, raw map[string]any) Entry {
	entry := Entry{
		Source:      source,
		Title:       stringField(raw, "title"),
		Description: stringField(raw, "description"),
		PageURL:     stringField(raw, "page_url"),
		Tag:         stringField(raw, "tag"),
	}
	if entry.PageURL == "" {
		entry.PageURL = stringField(raw, "link")
	}
	if entry.Tag == "" {
		entry.Tag = stringField(raw, "category")
	}
	if version, ok := semver.FromTitle(entry.Title); ok {
		entry.Version = version
	}
	entry.Codes = icao.EntryCodes(entry.Title, entry.Description, entry.PageURL)
	return entry
}

// Acceptable reports whether the entry may contribute to the index: its tag
// must equal the accepted tag and both version and identifiers must be present.
func (e Entry) Acceptable(acceptedTag string) bool {
	return e.Tag == acceptedTag && e.Version != "" && len(e.Codes) > 0
}

func stringField(raw map[string]any, key string) string {
	if value, ok := raw[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}
