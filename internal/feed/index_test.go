package feed_test

import (
	"os"
	"path/filepath"
	"testing"

	"simtagger/internal/feed"
	"simtagger/internal/logging"
)

const acceptedTag = "MSFS 2020/2024"

func writeSource(t *testing.T, root, name, payload string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), []byte(payload), 0o644); err != nil {
		t.Fatalf("write feed source %s: %v", name, err)
	}
}

func TestLoadIndexBareListAndWrappedObject(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.json", `[
		{"title": "KLAX Los Angeles v1.2.0", "description": "", "page_url": "", "tag": "MSFS 2020/2024"}
	]`)
	writeSource(t, root, "b.json", `{"items": [
		{"title": "EGLL Heathrow v2.0", "description": "", "link": "", "category": "MSFS 2020/2024"}
	]}`)

	index, err := feed.LoadIndex(root, acceptedTag, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if index.Len() != 2 {
		t.Fatalf("Len = %d, want 2", index.Len())
	}
	if tag, ok := index.Lookup("KLAX", "1.2.0"); !ok || tag != acceptedTag {
		t.Errorf("Lookup(KLAX, 1.2.0) = %q, %v", tag, ok)
	}
	if tag, ok := index.Lookup("EGLL", "2.0.0"); !ok || tag != acceptedTag {
		t.Errorf("Lookup(EGLL, 2.0.0) = %q, %v", tag, ok)
	}
}

func TestLoadIndexLaterSourceOverridesEarlier(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "2024-01-feed.json", `[
		{"title": "KLAX Los Angeles v1.2.0", "page_url": "", "tag": "MSFS 2020/2024"}
	]`)
	writeSource(t, root, "2024-02-feed.json", `[
		{"title": "KLAX Los Angeles v1.2.0", "page_url": "", "tag": "MSFS 2020/2024"}
	]`)

	index, err := feed.LoadIndex(root, acceptedTag, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	// The same key from both sources collapses to a single slot; the later
	// source's value wins rather than accumulating history.
	if index.Len() != 1 {
		t.Fatalf("Len = %d, want 1", index.Len())
	}
	tag, ok := index.Lookup("KLAX", "1.2.0")
	if !ok || tag != acceptedTag {
		t.Fatalf("Lookup = %q, %v", tag, ok)
	}
}

func TestLoadIndexSkipsMalformedAndUnacceptable(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "bad.json", `{not json`)
	writeSource(t, root, "scalar.json", `42`)
	writeSource(t, root, "mixed.json", `[
		17,
		{"title": "KJFK International v3.1", "tag": "MSFS 2020/2024"},
		{"title": "No version here", "tag": "MSFS 2020/2024"},
		{"title": "VTBU Pattaya v1.0", "tag": "X-Plane"}
	]`)

	index, err := feed.LoadIndex(root, acceptedTag, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if index.Len() != 1 {
		t.Fatalf("Len = %d, want 1", index.Len())
	}
	if _, ok := index.Lookup("KJFK", "3.1.0"); !ok {
		t.Error("expected KJFK 3.1.0 in index")
	}
}

func TestLoadIndexLabeledDescriptionBeatsTitleTokens(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "feed.json", `[
		{"title": "KJFK misleading v1.0", "description": "ICAO: VTBU", "tag": "MSFS 2020/2024"}
	]`)

	index, err := feed.LoadIndex(root, acceptedTag, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if _, ok := index.Lookup("KJFK", "1.0.0"); ok {
		t.Error("title token indexed despite labeled description token")
	}
	if _, ok := index.Lookup("VTBU", "1.0.0"); !ok {
		t.Error("labeled description token missing from index")
	}
}

func TestRowsSorted(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "feed.json", `[
		{"title": "VTBU Pattaya v1.0", "tag": "MSFS 2020/2024"},
		{"title": "EGLL Heathrow v2.0", "tag": "MSFS 2020/2024"}
	]`)

	index, err := feed.LoadIndex(root, acceptedTag, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	rows := index.Rows()
	if len(rows) != 2 || rows[0].Code != "EGLL" || rows[1].Code != "VTBU" {
		t.Errorf("Rows = %+v, want EGLL then VTBU", rows)
	}
}
