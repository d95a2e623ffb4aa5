package cryptofolio

import "time"

// TimeRange represents a closed range of timestamps.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange creates a new time range. If 'start' is after 'end', they
// are swapped.
func NewTimeRange(start, end time.Time) TimeRange {
	if start.After(end) {
		start, end = end, start
	}
	return TimeRange{Start: start, End: end}
}

// Contains reports whether t falls within the range (boundaries included).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// OverlapsOrAdjacent reports whether the two ranges overlap or connect
// within the given gap tolerance.
func (r TimeRange) OverlapsOrAdjacent(other TimeRange, gap time.Duration) bool {
	return !r.Start.After(other.End.Add(gap)) && !other.Start.After(r.End.Add(gap))
}

// Merge returns the combined range covering both r and other.
func (r TimeRange) Merge(other TimeRange) TimeRange {
	merged := r
	if other.Start.Before(merged.Start) {
		merged.Start = other.Start
	}
	if other.End.After(merged.End) {
		merged.End = other.End
	}
	return merged
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration { return r.End.Sub(r.Start) }
