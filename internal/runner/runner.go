package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"simtagger/internal/config"
	"simtagger/internal/feed"
	"simtagger/internal/history"
	"simtagger/internal/logging"
	"simtagger/internal/manifest"
	"simtagger/internal/preflight"
	"simtagger/internal/reconcile"
	"simtagger/internal/relocate"
	"simtagger/internal/report"
	"simtagger/internal/services"
)

// Runner executes one reconciliation pass over the addons root.
type Runner struct {
	cfg    *config.Config
	apply  bool
	logger *slog.Logger
	out    io.Writer
	probe  relocate.Probe
}

// Summary aggregates what one run did.
type Summary struct {
	RunID     string
	Manifests int
	Indexed   int
	Counters  *report.Counters
	StartedAt time.Time
	Duration  time.Duration
}

// Option customizes runner construction.
type Option func(*Runner)

// WithProbe substitutes the filesystem probe behind relocation decisions.
func WithProbe(probe relocate.Probe) Option {
	return func(r *Runner) { r.probe = probe }
}

// New builds a runner. Report lines stream to out as items are processed.
func New(cfg *config.Config, apply bool, logger *slog.Logger, out io.Writer, opts ...Option) *Runner {
	if out == nil {
		out = io.Discard
	}
	runner := &Runner{
		cfg:    cfg,
		apply:  apply,
		logger: logging.NewComponentLogger(logger, "runner"),
		out:    out,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run performs the pass. The returned error is fatal (bad environment, lock
// contention, unusable feed root); per-item failures surface as outcomes in
// the summary instead.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := preflight.Err(preflight.RunAll(r.cfg)); err != nil {
		return nil, err
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "runner", "prepare directories", "", err)
	}

	if r.apply {
		lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "simtagger.lock"))
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("another simtagger run is already applying changes")
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				r.logger.Warn("run lock release failed", logging.Error(err))
			}
		}()
	}

	startedAt := time.Now()
	runID := uuid.NewString()
	r.logger.Info("run starting",
		logging.String("run_id", runID),
		logging.Bool("apply", r.apply),
		logging.String("addons_root", r.cfg.Paths.AddonsRoot),
		logging.String("dest_root", r.cfg.Paths.DestRoot))

	counters := report.NewCounters()
	sinks := report.MultiSink{report.NewConsoleSink(r.out), counters}

	var store *history.Store
	if r.cfg.History.Enabled {
		var err error
		store, err = history.Open(r.cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		if err := store.BeginRun(ctx, history.Run{
			ID:         runID,
			StartedAt:  startedAt,
			Apply:      r.apply,
			AddonsRoot: r.cfg.Paths.AddonsRoot,
			DestRoot:   r.cfg.Paths.DestRoot,
		}); err != nil {
			return nil, fmt.Errorf("record run start: %w", err)
		}
		sinks = append(sinks, history.NewSink(store, runID, r.logger))
	}

	index, err := feed.LoadIndex(r.cfg.Paths.FeedRoot, r.cfg.Matching.AcceptedTag, r.logger)
	if err != nil {
		return nil, fmt.Errorf("load feed index: %w", err)
	}
	r.logger.Info("feed index loaded", logging.Int("entries", index.Len()))

	// Snapshot the manifest list before processing so relocations cannot
	// feed the scan its own output.
	paths, err := manifest.Scan(r.cfg.Paths.AddonsRoot)
	if err != nil {
		return nil, fmt.Errorf("scan addons root: %w", err)
	}
	r.logger.Info("manifest scan complete", logging.Int("manifests", len(paths)))

	engine := reconcile.New(index, r.apply, sinks, r.logger)

	margin := r.cfg.Relocation.SpaceMarginBytes
	var relocator *relocate.Relocator
	if r.probe != nil {
		relocator = relocate.NewWithProbe(r.cfg.Paths.AddonsRoot, r.cfg.Paths.DestRoot, margin, r.apply, sinks, r.logger, r.probe)
	} else {
		relocator = relocate.New(r.cfg.Paths.AddonsRoot, r.cfg.Paths.DestRoot, margin, r.apply, sinks, r.logger)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record := manifest.Load(path)
		result := engine.Process(&record)
		if result.Tag == r.cfg.Matching.AcceptedTag {
			relocator.Process(record.Dir, result.ICAO, result.Version)
		}
	}

	if store != nil {
		if err := store.FinishRun(ctx, runID, time.Now(), len(paths)); err != nil {
			r.logger.Warn("run completion persistence failed", logging.Error(err))
		}
	}

	summary := &Summary{
		RunID:     runID,
		Manifests: len(paths),
		Indexed:   index.Len(),
		Counters:  counters,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}
	r.logger.Info("run finished",
		logging.String("run_id", runID),
		logging.Int("manifests", summary.Manifests),
		logging.Duration("elapsed", summary.Duration))
	return summary, nil
}
