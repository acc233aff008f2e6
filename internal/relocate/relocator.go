package relocate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"simtagger/internal/fileutil"
	"simtagger/internal/logging"
	"simtagger/internal/report"
)

// Relocator moves accepted addon directories from the scan root into the
// destination tree.
type Relocator struct {
	srcRoot  string
	destRoot string
	margin   int64
	apply    bool
	probe    Probe
	sink     report.Sink
	logger   *slog.Logger
}

func New(srcRoot, destRoot string, margin int64, apply bool, sink report.Sink, logger *slog.Logger) *Relocator {
	return NewWithProbe(srcRoot, destRoot, margin, apply, sink, logger, unixProbe{})
}

// NewWithProbe wires an explicit filesystem probe; tests use it to simulate
// volume layouts and free-space figures.
func NewWithProbe(srcRoot, destRoot string, margin int64, apply bool, sink report.Sink, logger *slog.Logger, probe Probe) *Relocator {
	return &Relocator{
		srcRoot:  srcRoot,
		destRoot: destRoot,
		margin:   margin,
		apply:    apply,
		probe:    probe,
		sink:     sink,
		logger:   logging.NewComponentLogger(logger, "relocate"),
	}
}

// Process moves one addon directory. The returned outcome is terminal for the
// item; failures are reported and never abort the batch.
func (r *Relocator) Process(dir, icaoCode, version string) report.Outcome {
	dest := r.destination(dir)

	if _, err := os.Lstat(dest); err == nil {
		outcome := report.OutcomeWillSkipExist
		if r.apply {
			outcome = report.OutcomeSkipExist
		}
		return r.emit(report.Record{
			Outcome: outcome,
			ICAO:    icaoCode,
			Version: version,
			Detail:  "destination already exists",
			Path:    dir,
			Dest:    dest,
		})
	}

	if r.probe.SameVolume(dir, dest) {
		return r.rename(dir, dest, icaoCode, version)
	}
	return r.copyDelete(dir, dest, icaoCode, version)
}

// destination maps the addon directory into the destination tree, preserving
// its position relative to the scan root. Directories outside the root keep
// only their base name.
func (r *Relocator) destination(dir string) string {
	rel, err := filepath.Rel(r.srcRoot, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Join(r.destRoot, filepath.Base(dir))
	}
	return filepath.Join(r.destRoot, rel)
}

func (r *Relocator) rename(dir, dest, icaoCode, version string) report.Outcome {
	if !r.apply {
		return r.emit(report.Record{
			Outcome: report.OutcomeWillMove,
			ICAO:    icaoCode,
			Version: version,
			Detail:  "(rename)",
			Path:    dir,
			Dest:    dest,
		})
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return r.failed(dir, dest, icaoCode, version, err)
	}
	if err := os.Rename(dir, dest); err != nil {
		// The volume check is a heuristic; fall back when the kernel
		// disagrees.
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) {
			return r.copyDelete(dir, dest, icaoCode, version)
		}
		return r.failed(dir, dest, icaoCode, version, err)
	}

	return r.emit(report.Record{
		Outcome: report.OutcomeMoved,
		ICAO:    icaoCode,
		Version: version,
		Detail:  "(rename)",
		Path:    dir,
		Dest:    dest,
	})
}

func (r *Relocator) copyDelete(dir, dest, icaoCode, version string) report.Outcome {
	size := r.probe.DirSize(dir)
	free, err := r.probe.FreeBytes(filepath.Dir(dest))
	if err != nil {
		r.logger.Error("free-space query failed", logging.String("dest", dest), logging.Error(err))
		return r.failed(dir, dest, icaoCode, version, fmt.Errorf("free-space query: %w", err))
	}

	detail := fmt.Sprintf("(copy+delete, size %s, free %s, margin %s)",
		humanize.IBytes(uint64(size)), humanize.IBytes(free), humanize.IBytes(uint64(r.margin)))

	if uint64(size+r.margin) > free {
		outcome := report.OutcomeWillNoSpace
		if r.apply {
			outcome = report.OutcomeNoSpace
		}
		return r.emit(report.Record{
			Outcome: outcome,
			ICAO:    icaoCode,
			Version: version,
			Detail:  detail,
			Path:    dir,
			Dest:    dest,
		})
	}

	if !r.apply {
		return r.emit(report.Record{
			Outcome: report.OutcomeWillMove,
			ICAO:    icaoCode,
			Version: version,
			Detail:  detail,
			Path:    dir,
			Dest:    dest,
		})
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return r.failed(dir, dest, icaoCode, version, err)
	}
	if err := fileutil.CopyTree(dir, dest); err != nil {
		// Drop the partial copy so a rerun gets a clean destination.
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			r.logger.Warn("partial copy cleanup failed", logging.String("dest", dest), logging.Error(rmErr))
		}
		return r.failed(dir, dest, icaoCode, version, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return r.failed(dir, dest, icaoCode, version, fmt.Errorf("copied but source removal failed: %w", err))
	}

	return r.emit(report.Record{
		Outcome: report.OutcomeMoved,
		ICAO:    icaoCode,
		Version: version,
		Detail:  detail,
		Path:    dir,
		Dest:    dest,
	})
}

func (r *Relocator) failed(dir, dest, icaoCode, version string, err error) report.Outcome {
	r.logger.Error("move failed",
		logging.String("source", dir),
		logging.String("dest", dest),
		logging.Error(err))
	return r.emit(report.Record{
		Outcome: report.OutcomeMoveFailed,
		ICAO:    icaoCode,
		Version: version,
		Detail:  err.Error(),
		Path:    dir,
		Dest:    dest,
	})
}

func (r *Relocator) emit(record report.Record) report.Outcome {
	record.Phase = report.PhaseRelocate
	if r.sink != nil {
		r.sink.Emit(record)
	}
	return record.Outcome
}
