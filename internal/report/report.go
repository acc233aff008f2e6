package report

import (
	"fmt"
	"io"
	"strings"
)

// Phase distinguishes the two reporting stages of a run.
type Phase string

const (
	PhaseReconcile Phase = "reconcile"
	PhaseRelocate  Phase = "relocate"
)

// Outcome is one value of the closed per-item vocabulary.
type Outcome string

const (
	OutcomeBadJSON      Outcome = "BAD_JSON"
	OutcomeNoVersion    Outcome = "NO_VERSION"
	OutcomeNoMatch      Outcome = "NO_MATCH"
	OutcomeNoop         Outcome = "NOOP"
	OutcomeWillUpdate   Outcome = "WILL_UPDATE"
	OutcomeUpdated      Outcome = "UPDATED"
	OutcomeUpdateFailed Outcome = "UPDATE_FAILED"

	OutcomeWillMove      Outcome = "WILL_MOVE"
	OutcomeMoved         Outcome = "MOVED"
	OutcomeSkipExist     Outcome = "SKIP_EXIST"
	OutcomeWillSkipExist Outcome = "WILL_SKIP_EXIST"
	OutcomeNoSpace       Outcome = "NO_SPACE"
	OutcomeWillNoSpace   Outcome = "WILL_NO_SPACE"
	OutcomeMoveFailed    Outcome = "MOVE_FAILED"
)

// Order fixes the summary listing sequence.
var Order = []Outcome{
	OutcomeWillUpdate,
	OutcomeUpdated,
	OutcomeNoop,
	OutcomeNoVersion,
	OutcomeNoMatch,
	OutcomeBadJSON,
	OutcomeUpdateFailed,
	OutcomeWillMove,
	OutcomeMoved,
	OutcomeSkipExist,
	OutcomeWillSkipExist,
	OutcomeNoSpace,
	OutcomeWillNoSpace,
	OutcomeMoveFailed,
}

// Record is one per-item report line.
type Record struct {
	Phase   Phase
	Outcome Outcome
	ICAO    string
	Version string
	Detail  string
	Path    string
	Dest    string
}

// Line renders the record in the canonical pipe-separated report format.
func (r Record) Line() string {
	parts := []string{fmt.Sprintf("%-15s", string(r.Outcome))}
	if r.ICAO != "" {
		parts = append(parts, r.ICAO)
	}
	if r.Version != "" {
		parts = append(parts, "v"+r.Version)
	}
	if r.Detail != "" {
		parts = append(parts, r.Detail)
	}
	if r.Path != "" {
		if r.Dest != "" {
			parts = append(parts, r.Path+" -> "+r.Dest)
		} else {
			parts = append(parts, r.Path)
		}
	}
	return strings.Join(parts, " | ")
}

// Sink receives per-item records as the run produces them.
type Sink interface {
	Emit(Record)
}

// ConsoleSink writes report lines to a writer.
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Emit(record Record) {
	fmt.Fprintln(s.w, record.Line())
}

// MultiSink fans every record out to all wrapped sinks.
type MultiSink []Sink

func (m MultiSink) Emit(record Record) {
	for _, sink := range m {
		if sink != nil {
			sink.Emit(record)
		}
	}
}

// Counters aggregates outcomes across a run and collects the bad-JSON
// failures for the grouped summary block.
type Counters struct {
	counts  map[Outcome]int
	badJSON []string
}

func NewCounters() *Counters {
	return &Counters{counts: make(map[Outcome]int)}
}

// Emit lets Counters sit in the sink chain.
func (c *Counters) Emit(record Record) {
	c.counts[record.Outcome]++
	if record.Outcome == OutcomeBadJSON {
		c.badJSON = append(c.badJSON, record.Path+" | "+record.Detail)
	}
}

// Count returns the tally for one outcome.
func (c *Counters) Count(outcome Outcome) int {
	return c.counts[outcome]
}

// BadJSON returns the collected parse failures in emission order.
func (c *Counters) BadJSON() []string {
	return append([]string(nil), c.badJSON...)
}
