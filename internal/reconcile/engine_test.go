package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"simtagger/internal/feed"
	"simtagger/internal/logging"
	"simtagger/internal/manifest"
	"simtagger/internal/reconcile"
	"simtagger/internal/report"
)

const acceptedTag = "MSFS 2020/2024"

func buildIndex(t *testing.T, entries string) *feed.Index {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "feed.json"), []byte(entries), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	index, err := feed.LoadIndex(root, acceptedTag, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	return index
}

func klaxIndex(t *testing.T) *feed.Index {
	t.Helper()
	return buildIndex(t, `[{"title": "KLAX Los Angeles v1.2.0", "tag": "MSFS 2020/2024"}]`)
}

func writeRecord(t *testing.T, root, folder, payload string) *manifest.Record {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, manifest.FileName)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	record := manifest.Load(path)
	return &record
}

func TestProcessBadJSON(t *testing.T) {
	counters := report.NewCounters()
	engine := reconcile.New(klaxIndex(t), false, counters, logging.NewNop())

	record := writeRecord(t, t.TempDir(), "broken", `{"title": `)
	result := engine.Process(record)
	if result.Outcome != report.OutcomeBadJSON {
		t.Fatalf("Outcome = %s", result.Outcome)
	}
	if counters.Count(report.OutcomeBadJSON) != 1 {
		t.Error("BAD_JSON not counted")
	}
}

func TestProcessNoVersion(t *testing.T) {
	engine := reconcile.New(klaxIndex(t), false, report.NewCounters(), logging.NewNop())

	for _, payload := range []string{`{"title": "KLAX"}`, `{"title": "KLAX", "package_version": "x.y"}`} {
		record := writeRecord(t, t.TempDir(), "vendor-klax-v1", payload)
		if result := engine.Process(record); result.Outcome != report.OutcomeNoVersion {
			t.Errorf("payload %s: Outcome = %s, want NO_VERSION", payload, result.Outcome)
		}
	}
}

func TestProcessNoIdentifierUsesPlaceholder(t *testing.T) {
	counters := report.NewCounters()
	engine := reconcile.New(klaxIndex(t), false, counters, logging.NewNop())

	record := writeRecord(t, t.TempDir(), "anonymous-addon7", `{"package_version": "1.2.0", "title": "Airports volume"}`)
	if result := engine.Process(record); result.Outcome != report.OutcomeNoMatch {
		t.Fatalf("Outcome = %s, want NO_MATCH", result.Outcome)
	}
}

func TestProcessNoFeedMatch(t *testing.T) {
	engine := reconcile.New(klaxIndex(t), false, report.NewCounters(), logging.NewNop())

	record := writeRecord(t, t.TempDir(), "vendor-egll-v1", `{"package_version": "1.2.0"}`)
	result := engine.Process(record)
	if result.Outcome != report.OutcomeNoMatch {
		t.Fatalf("Outcome = %s, want NO_MATCH", result.Outcome)
	}
	if result.ICAO != "EGLL" {
		t.Errorf("ICAO = %q", result.ICAO)
	}
}

func TestProcessDryRunWillUpdate(t *testing.T) {
	engine := reconcile.New(klaxIndex(t), false, report.NewCounters(), logging.NewNop())

	record := writeRecord(t, t.TempDir(), "vendor-klax-v1", `{"package_version": "1.2.0", "simType": null}`)
	result := engine.Process(record)
	if result.Outcome != report.OutcomeWillUpdate {
		t.Fatalf("Outcome = %s, want WILL_UPDATE", result.Outcome)
	}
	if result.Tag != acceptedTag {
		t.Errorf("Tag = %q", result.Tag)
	}

	// Dry run must not touch the manifest.
	reloaded := manifest.Load(record.Path)
	if reloaded.SimType != nil {
		t.Errorf("dry run mutated manifest: simType = %v", reloaded.SimType)
	}
}

func TestProcessVersionEquivalenceAcrossFormats(t *testing.T) {
	engine := reconcile.New(klaxIndex(t), false, report.NewCounters(), logging.NewNop())

	record := writeRecord(t, t.TempDir(), "vendor-klax-v1", `{"package_version": "v1_2", "simType": null}`)
	if result := engine.Process(record); result.Outcome != report.OutcomeWillUpdate {
		t.Errorf("Outcome = %s, want WILL_UPDATE for v1_2 vs feed 1.2.0", result.Outcome)
	}
}

func TestProcessApplyThenNoop(t *testing.T) {
	index := klaxIndex(t)
	root := t.TempDir()
	record := writeRecord(t, root, "vendor-klax-v1", `{"package_version": "1.2.0", "simType": null, "creator": "someco"}`)

	apply := reconcile.New(index, true, report.NewCounters(), logging.NewNop())
	if result := apply.Process(record); result.Outcome != report.OutcomeUpdated {
		t.Fatalf("first apply Outcome = %s, want UPDATED", result.Outcome)
	}

	reloaded := manifest.Load(record.Path)
	if reloaded.SimType != acceptedTag {
		t.Fatalf("simType after apply = %v", reloaded.SimType)
	}
	if reloaded.Raw["creator"] != "someco" {
		t.Error("unrelated field lost on rewrite")
	}

	second := apply.Process(&reloaded)
	if second.Outcome != report.OutcomeNoop {
		t.Fatalf("second apply Outcome = %s, want NOOP", second.Outcome)
	}
	if second.Tag != acceptedTag {
		t.Errorf("NOOP should still resolve the tag, got %q", second.Tag)
	}
}
