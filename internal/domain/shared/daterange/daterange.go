package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end date is before start date")
)

// DateRange represents an inclusive calendar interval [Start, End]. Both
// endpoints count towards the rental duration, so a one-day rental has
// Start == End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New truncates both endpoints to midnight UTC and validates the ordering.
func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Day(start), End: Day(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Day normalizes a timestamp to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if dr.End.Before(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the rental duration counting both endpoints.
func (dr DateRange) Days() int {
	return int(dr.End.Sub(dr.Start).Hours()/24) + 1
}

// Overlaps reports whether two inclusive ranges share at least one date.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.Start.After(other.End) && !other.Start.After(dr.End)
}

// ContainsDate reports whether the date falls inside the range, endpoints included.
func (dr DateRange) ContainsDate(t time.Time) bool {
	d := Day(t)
	return !d.Before(dr.Start) && !d.After(dr.End)
}

// EachDay enumerates every calendar date the range spans, endpoints included.
func (dr DateRange) EachDay() []time.Time {
	days := make([]time.Time, 0, dr.Days())
	for d := dr.Start; !d.After(dr.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
