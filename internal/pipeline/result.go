// Package pipeline orchestrates a full warehouse load: fetch the feeds,
// stamp game keys and time slots, resolve player identity, aggregate, and
// merge everything through the warehouse gateway.
package pipeline

import "fmt"

// RunResult tracks counts and soft errors from one load.
type RunResult struct {
	WeeklyRows      int
	UnknownSlotRows int
	SyntheticIDs    int
	FactRows        int64
	DedupedRows     int
	DeletedRows     int64
	LineRows        int64
	PropRows        int64
	BackfilledRows  int64
	Errors          []string
}

// AddError records an error message.
func (r *RunResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *RunResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the load.
func (r *RunResult) Summary() string {
	return fmt.Sprintf(
		"weekly=%d unknown_slot=%d synthetic=%d facts=%d deduped=%d deleted=%d lines=%d props=%d backfilled=%d errors=%d",
		r.WeeklyRows, r.UnknownSlotRows, r.SyntheticIDs,
		r.FactRows, r.DedupedRows, r.DeletedRows,
		r.LineRows, r.PropRows, r.BackfilledRows,
		len(r.Errors),
	)
}
