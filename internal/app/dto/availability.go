package dto

import (
	"time"

	domainavailability "sharetools/internal/domain/availability"
)

const dateLayout = "2006-01-02"

// ItemAvailability answers the item-level availability query.
type ItemAvailability struct {
	ItemID            string   `json:"item_id"`
	IsAvailable       bool     `json:"is_available"`
	BlockedDates      []string `json:"blocked_dates"`
	NextAvailableDate *string  `json:"next_available_date"`
}

func NewItemAvailability(report domainavailability.Report) ItemAvailability {
	out := ItemAvailability{
		ItemID:       string(report.ItemID),
		IsAvailable:  report.IsAvailable,
		BlockedDates: FormatDates(report.BlockedDates),
	}
	if report.HasNext {
		next := report.NextAvailable.Format(dateLayout)
		out.NextAvailableDate = &next
	}
	return out
}

// FormatDates renders calendar dates as YYYY-MM-DD strings.
func FormatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return out
}
