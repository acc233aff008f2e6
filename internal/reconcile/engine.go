package reconcile

import (
	"fmt"
	"log/slog"

	"simtagger/internal/feed"
	"simtagger/internal/icao"
	"simtagger/internal/logging"
	"simtagger/internal/manifest"
	"simtagger/internal/report"
	"simtagger/internal/semver"
)

// Engine classifies manifests against the feed index.
type Engine struct {
	index  *feed.Index
	apply  bool
	sink   report.Sink
	logger *slog.Logger
}

// Result carries what later stages need: the classified record and, when a
// feed match exists, the resolved tag. Tag stays empty when no relocation may
// follow (no match, bad manifest, failed rewrite).
type Result struct {
	Outcome report.Outcome
	ICAO    string
	Version string
	Tag     string
}

func New(index *feed.Index, apply bool, sink report.Sink, logger *slog.Logger) *Engine {
	return &Engine{
		index:  index,
		apply:  apply,
		sink:   sink,
		logger: logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Process classifies one manifest record, rewriting its tag field when apply
// mode finds a genuine change.
func (e *Engine) Process(record *manifest.Record) Result {
	if record.ParseErr != nil {
		return e.emit(Result{Outcome: report.OutcomeBadJSON}, report.Record{
			Path:   record.Path,
			Detail: record.ParseErr.Error(),
		})
	}

	version, ok := semver.Normalize(record.Version)
	if record.Version == "" || !ok {
		return e.emit(Result{Outcome: report.OutcomeNoVersion}, report.Record{
			Path: record.Path,
		})
	}

	match, ok := icao.FromManifest(record.Folder, record.Title)
	if !ok {
		return e.emit(Result{Outcome: report.OutcomeNoMatch, Version: version}, report.Record{
			ICAO:    icao.Placeholder,
			Version: record.Version,
			Path:    record.Path,
		})
	}

	tag, ok := e.index.Lookup(match.Code, version)
	if !ok {
		return e.emit(Result{Outcome: report.OutcomeNoMatch, ICAO: match.Code, Version: version}, report.Record{
			ICAO:    match.Code,
			Version: version,
			Path:    record.Path,
		})
	}

	before := manifest.TagString(record.SimType)
	current, isString := record.SimType.(string)
	if isString && current == tag {
		return e.emit(Result{Outcome: report.OutcomeNoop, ICAO: match.Code, Version: version, Tag: tag}, report.Record{
			ICAO:    match.Code,
			Version: version,
			Detail:  fmt.Sprintf("simType already %s", before),
			Path:    record.Path,
		})
	}

	detail := fmt.Sprintf("simType %s -> %s", before, tag)
	if !e.apply {
		return e.emit(Result{Outcome: report.OutcomeWillUpdate, ICAO: match.Code, Version: version, Tag: tag}, report.Record{
			ICAO:    match.Code,
			Version: version,
			Detail:  detail,
			Path:    record.Path,
		})
	}

	if err := record.Rewrite(tag); err != nil {
		e.logger.Error("manifest rewrite failed", logging.String("path", record.Path), logging.Error(err))
		return e.emit(Result{Outcome: report.OutcomeUpdateFailed, ICAO: match.Code, Version: version}, report.Record{
			ICAO:    match.Code,
			Version: version,
			Detail:  err.Error(),
			Path:    record.Path,
		})
	}

	return e.emit(Result{Outcome: report.OutcomeUpdated, ICAO: match.Code, Version: version, Tag: tag}, report.Record{
		ICAO:    match.Code,
		Version: version,
		Detail:  detail,
		Path:    record.Path,
	})
}

func (e *Engine) emit(result Result, record report.Record) Result {
	record.Phase = report.PhaseReconcile
	record.Outcome = result.Outcome
	if e.sink != nil {
		e.sink.Emit(record)
	}
	return result
}
