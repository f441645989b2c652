package rental

import (
	"time"

	"sharetools/internal/domain/shared/daterange"
)

// ValidateRequestRange rejects ranges that start in the past. Ordering is
// already enforced by daterange.New.
func ValidateRequestRange(dr daterange.DateRange, now time.Time) error {
	if dr.Start.Before(daterange.Day(now)) {
		return ErrStartDateInPast
	}
	return nil
}
