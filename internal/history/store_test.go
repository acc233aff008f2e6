package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"simtagger/internal/history"
	"simtagger/internal/logging"
	"simtagger/internal/report"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history", "simtagger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	run := history.Run{
		ID:         "run-1",
		StartedAt:  started,
		Apply:      true,
		AddonsRoot: "/sim/community",
		DestRoot:   "/archive/accepted",
	}
	if err := store.BeginRun(ctx, run); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, "run-1", started.Add(2*time.Second), 12); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != "run-1" || !got.Apply || got.Manifests != 12 {
		t.Errorf("run = %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v", got.StartedAt)
	}
	if !got.FinishedAt.Equal(started.Add(2 * time.Second)) {
		t.Errorf("FinishedAt = %v", got.FinishedAt)
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := history.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.BeginRun(ctx, run); err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("order = %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestOutcomesPerRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, history.Run{ID: "run-1", StartedAt: time.Now()}); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	sink := history.NewSink(store, "run-1", logging.NewNop())
	sink.Emit(report.Record{
		Phase:   report.PhaseReconcile,
		Outcome: report.OutcomeUpdated,
		ICAO:    "KLAX",
		Version: "1.2.0",
		Path:    "/sim/community/vendor-klax-v1/manifest.json",
	})
	sink.Emit(report.Record{
		Phase:   report.PhaseRelocate,
		Outcome: report.OutcomeMoved,
		ICAO:    "KLAX",
		Version: "1.2.0",
		Path:    "/sim/community/vendor-klax-v1",
		Dest:    "/archive/accepted/vendor-klax-v1",
	})

	records, err := store.RunOutcomes(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunOutcomes: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Outcome != report.OutcomeUpdated || records[1].Outcome != report.OutcomeMoved {
		t.Errorf("outcomes = %s, %s", records[0].Outcome, records[1].Outcome)
	}
	if records[1].Dest != "/archive/accepted/vendor-klax-v1" {
		t.Errorf("Dest = %q", records[1].Dest)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simtagger.db")

	first, err := history.Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := first.BeginRun(context.Background(), history.Run{ID: "run-1", StartedAt: time.Now()}); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := history.Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	runs, err := second.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs after reopen = %d, want 1", len(runs))
	}
}
