package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"simtagger/internal/logging"
	"simtagger/internal/report"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear their history database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Apply      bool
	AddonsRoot string
	DestRoot   string
	Manifests  int
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}

	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// BeginRun records the start of a run. FinishRun completes the row later.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, started_at, apply, addons_root, dest_root) VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(run.Apply),
		run.AddonsRoot,
		run.DestRoot,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time and manifest count.
func (s *Store) FinishRun(ctx context.Context, id string, finishedAt time.Time, manifests int) error {
	if err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, manifests = ? WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339Nano),
		manifests,
		id,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordOutcome stores one report record against a run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, record report.Record) error {
	if err := s.execWithRetry(ctx,
		`INSERT INTO outcomes (run_id, phase, outcome, icao, version, detail, path, dest)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		string(record.Phase),
		string(record.Outcome),
		record.ICAO,
		record.Version,
		record.Detail,
		record.Path,
		record.Dest,
	); err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), apply, addons_root, dest_root, manifests
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run               Run
			started, finished string
			apply             int
		)
		if err := rows.Scan(&run.ID, &started, &finished, &apply, &run.AddonsRoot, &run.DestRoot, &run.Manifests); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Apply = apply != 0
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finished != "" {
			if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunOutcomes returns the report records stored for one run, in emission
// order.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]report.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT phase, outcome, icao, version, detail, path, dest
         FROM outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var records []report.Record
	for rows.Next() {
		var record report.Record
		var phase, outcome string
		if err := rows.Scan(&phase, &outcome, &record.ICAO, &record.Version, &record.Detail, &record.Path, &record.Dest); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		record.Phase = report.Phase(phase)
		record.Outcome = report.Outcome(outcome)
		records = append(records, record)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Sink adapts the store into the report sink chain for one run. Persistence
// failures are logged and never interrupt the run.
type Sink struct {
	store  *Store
	runID  string
	logger *slog.Logger
}

func NewSink(store *Store, runID string, logger *slog.Logger) *Sink {
	return &Sink{
		store:  store,
		runID:  runID,
		logger: logging.NewComponentLogger(logger, "history"),
	}
}

func (s *Sink) Emit(record report.Record) {
	if err := s.store.RecordOutcome(context.Background(), s.runID, record); err != nil {
		s.logger.Warn("outcome persistence failed", logging.Error(err))
	}
}
