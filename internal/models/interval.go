package models

import "time"

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching boundaries ([10,12) and [12,14)) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Covers reports whether i fully contains o
func (i Interval) Covers(o Interval) bool {
	return !i.Start.After(o.Start) && !i.End.Before(o.End)
}
