package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"simtagger/internal/config"
	"simtagger/internal/history"
	"simtagger/internal/logging"
	"simtagger/internal/manifest"
	"simtagger/internal/report"
	"simtagger/internal/runner"
	"simtagger/internal/services"
	"simtagger/internal/testsupport"
)

const feedPayload = `[
	{"title": "KLAX Los Angeles v1.2.0", "tag": "MSFS 2020/2024"},
	{"title": "EGLL Heathrow v4.0.0", "tag": "MSFS 2020 only"}
]`

func seedWorkspace(t *testing.T, cfg *config.Config) {
	t.Helper()
	testsupport.WriteFeedSource(t, cfg.Paths.FeedRoot, "feed.json", feedPayload)
	testsupport.WriteManifest(t, cfg.Paths.AddonsRoot, "vendor-klax-v1",
		`{"package_version": "1.2.0", "simType": null, "creator": "someco"}`)
	testsupport.WriteManifest(t, cfg.Paths.AddonsRoot, "vendor-egll-v4",
		`{"package_version": "4.0.0"}`)
	testsupport.WriteManifest(t, cfg.Paths.AddonsRoot, "broken-addon",
		`{"package_version": `)
}

func TestRunDryRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedWorkspace(t, cfg)

	var out bytes.Buffer
	summary, err := runner.New(cfg, false, logging.NewNop(), &out).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Manifests != 3 {
		t.Errorf("Manifests = %d, want 3", summary.Manifests)
	}
	for outcome, want := range map[report.Outcome]int{
		report.OutcomeWillUpdate: 1,
		report.OutcomeNoMatch:    1,
		report.OutcomeBadJSON:    1,
		report.OutcomeWillMove:   1,
		report.OutcomeUpdated:    0,
		report.OutcomeMoved:      0,
	} {
		if got := summary.Counters.Count(outcome); got != want {
			t.Errorf("%s = %d, want %d", outcome, got, want)
		}
	}

	if !strings.Contains(out.String(), string(report.OutcomeWillUpdate)) {
		t.Error("report stream missing WILL_UPDATE line")
	}

	// Nothing may change on disk.
	loaded := manifest.Load(filepath.Join(cfg.Paths.AddonsRoot, "vendor-klax-v1", manifest.FileName))
	if loaded.SimType != nil {
		t.Errorf("dry run mutated manifest: %v", loaded.SimType)
	}
	if _, err := os.Stat(cfg.Paths.DestRoot); !os.IsNotExist(err) {
		t.Error("dry run created the destination root")
	}
}

func TestRunDryRunIsRepeatable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedWorkspace(t, cfg)
	run := runner.New(cfg, false, logging.NewNop(), nil)

	first, err := run.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := run.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	for _, outcome := range report.Order {
		if first.Counters.Count(outcome) != second.Counters.Count(outcome) {
			t.Errorf("%s diverged between identical dry runs", outcome)
		}
	}
}

func TestRunApplyMovesAndConverges(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedWorkspace(t, cfg)

	summary, err := runner.New(cfg, true, logging.NewNop(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("apply Run: %v", err)
	}
	if got := summary.Counters.Count(report.OutcomeUpdated); got != 1 {
		t.Errorf("UPDATED = %d, want 1", got)
	}
	if got := summary.Counters.Count(report.OutcomeMoved); got != 1 {
		t.Errorf("MOVED = %d, want 1", got)
	}

	movedManifest := filepath.Join(cfg.Paths.DestRoot, "vendor-klax-v1", manifest.FileName)
	payload, err := os.ReadFile(movedManifest)
	if err != nil {
		t.Fatalf("moved manifest: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("moved manifest parse: %v", err)
	}
	if decoded["simType"] != cfg.Matching.AcceptedTag {
		t.Errorf("simType = %v", decoded["simType"])
	}
	if decoded["creator"] != "someco" {
		t.Error("unrelated field lost")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.AddonsRoot, "vendor-klax-v1")); !os.IsNotExist(err) {
		t.Error("moved addon still under addons root")
	}

	// A second apply run sees the remaining manifests and does nothing new.
	again, err := runner.New(cfg, true, logging.NewNop(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second apply Run: %v", err)
	}
	if again.Manifests != 2 {
		t.Errorf("second run Manifests = %d, want 2", again.Manifests)
	}
	if got := again.Counters.Count(report.OutcomeMoved); got != 0 {
		t.Errorf("second run MOVED = %d, want 0", got)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistory())
	seedWorkspace(t, cfg)

	summary, err := runner.New(cfg, false, logging.NewNop(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != summary.RunID {
		t.Fatalf("runs = %+v", runs)
	}
	if runs[0].Manifests != 3 {
		t.Errorf("Manifests = %d, want 3", runs[0].Manifests)
	}

	records, err := store.RunOutcomes(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("RunOutcomes: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("outcome rows = %d, want 4", len(records))
	}
}

func TestRunMissingAddonsRootIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.RemoveAll(cfg.Paths.AddonsRoot); err != nil {
		t.Fatalf("remove addons root: %v", err)
	}

	_, err := runner.New(cfg, false, logging.NewNop(), nil).Run(context.Background())
	if err == nil {
		t.Fatal("missing addons root did not fail")
	}
	if !services.Fatal(err) {
		t.Errorf("error not fatal: %v", err)
	}
}
