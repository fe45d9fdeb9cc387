// Package feed models best-effort external fetches. Feeds like betting
// lines and prop odds are allowed to be missing: the pipeline treats an
// unavailable feed as an empty batch, not a propagated fault, while core
// feeds (stats, schedule, rosters) keep returning plain errors.
package feed

// Result is either Ok(data) or Unavailable(reason).
type Result[T any] struct {
	data   T
	reason string
	ok     bool
}

// Ok wraps successfully fetched data.
func Ok[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

// Unavailable marks the feed as absent for this run, with the reason kept
// for logging only.
func Unavailable[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

// Get returns the data and whether the feed was available.
func (r Result[T]) Get() (T, bool) {
	return r.data, r.ok
}

// Reason returns why the feed was unavailable, or "" when it was Ok.
func (r Result[T]) Reason() string {
	return r.reason
}

// OrEmpty returns the data, or the zero value when unavailable.
func (r Result[T]) OrEmpty() T {
	return r.data
}
