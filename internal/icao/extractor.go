package icao

import (
	"regexp"
	"sort"
	"strings"
)

// Placeholder stands in for the identifier in report lines when no strategy
// produced a token.
const Placeholder = "????"

// Source names the strategy that produced a match.
type Source string

const (
	SourceDescription Source = "description"
	SourceFolder      Source = "folder"
	SourceTitle       Source = "title"
	SourceSlug        Source = "slug"
)

// Match is the tagged result of a successful extraction.
type Match struct {
	Code   string
	Source Source
}

// Fields carries the text sources a strategy may inspect.
type Fields struct {
	Description string
	Folder      string
	Title       string
	Slug        string
}

var (
	// "ICAO: XXXX" labels inside descriptive text.
	descPattern = regexp.MustCompile(`(?i)ICAO:\s*([A-Za-z]{4})`)
	// Any standalone 4-letter word, used for titles.
	wordPattern = regexp.MustCompile(`\b([A-Za-z]{4})\b`)
	// Hyphen/underscore/space delimited token in folder names, e.g. "...-vtbu-...".
	folderPattern = regexp.MustCompile(`(?:^|[-_ ])([A-Za-z]{4})(?:$|[-_ ])`)
	// Hyphen/underscore/slash delimited token in URL slugs.
	slugPattern = regexp.MustCompile(`(?i)(?:^|[-_/])([a-z]{4})(?:[-_/]|$)`)
)

type strategy struct {
	source  Source
	extract func(Fields) (string, bool)
}

// strategies is the priority chain; earlier entries win.
var strategies = []strategy{
	{SourceDescription, func(f Fields) (string, bool) { return firstSubmatch(descPattern, f.Description) }},
	{SourceFolder, func(f Fields) (string, bool) { return firstSubmatch(folderPattern, f.Folder) }},
	{SourceTitle, func(f Fields) (string, bool) { return firstSubmatch(wordPattern, f.Title) }},
	{SourceSlug, func(f Fields) (string, bool) { return firstSubmatch(slugPattern, f.Slug) }},
}

// Best runs the priority chain over the populated fields and returns the
// first match.
func Best(fields Fields) (Match, bool) {
	for _, s := range strategies {
		if code, ok := s.extract(fields); ok {
			return Match{Code: strings.ToUpper(code), Source: s.source}, true
		}
	}
	return Match{}, false
}

// FromManifest derives the single best identifier for an installed package:
// the owning folder name is preferred, the manifest title is the fallback.
func FromManifest(folderName, title string) (Match, bool) {
	return Best(Fields{Folder: folderName, Title: title})
}

// EntryCodes collects the identifier set for one feed entry. A labeled
// description token wins alone; otherwise the sorted union of all title and
// slug tokens is returned.
func EntryCodes(title, description, pageURL string) []string {
	if code, ok := firstSubmatch(descPattern, description); ok {
		return []string{strings.ToUpper(code)}
	}
	set := make(map[string]struct{})
	for _, m := range wordPattern.FindAllStringSubmatch(title, -1) {
		set[strings.ToUpper(m[1])] = struct{}{}
	}
	for _, m := range slugPattern.FindAllStringSubmatch(pageURL, -1) {
		set[strings.ToUpper(m[1])] = struct{}{}
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func firstSubmatch(pattern *regexp.Regexp, text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
