package domain

import (
	"errors"
	"sort"
	"time"
)

var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval is a time range during which a participant is unavailable.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval creates a busy interval, rejecting empty or inverted ranges.
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps checks if this interval overlaps with another.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Timeline is an ordered sequence of non-overlapping busy intervals,
// sorted by start time ascending.
type Timeline []Interval

// MergeIntervals collapses an unordered set of possibly-overlapping intervals
// into a minimal sorted timeline. Intervals are treated as closed: a pair
// that merely touch at a boundary is merged, so the result never contains
// zero-length gaps.
func MergeIntervals(intervals []Interval) Timeline {
	if len(intervals) == 0 {
		return Timeline{}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make(Timeline, 0, len(sorted))
	current := sorted[0]

	for _, next := range sorted[1:] {
		if !next.Start.After(current.End) {
			// Overlapping or touching: extend the current interval.
			// A fully nested interval leaves current.End unchanged.
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}

// TotalBusy returns the sum of covered time across the timeline.
func (t Timeline) TotalBusy() time.Duration {
	total := time.Duration(0)
	for _, iv := range t {
		total += iv.Duration()
	}
	return total
}
