package availability

import (
	"sort"
	"time"

	"sharetools/internal/domain/items"
	"sharetools/internal/domain/shared/daterange"
)

// DefaultHorizonDays bounds the forward scan for the next open date.
const DefaultHorizonDays = 30

// Calendar is the view of an item's occupied dates derived from its
// occupying rental orders. It is rebuilt per request, never stored.
type Calendar struct {
	ItemID   items.ItemID
	Occupied []daterange.DateRange
}

func NewCalendar(id items.ItemID, occupied []daterange.DateRange) *Calendar {
	return &Calendar{ItemID: id, Occupied: occupied}
}

// CanReserve reports whether the requested range conflicts with no
// occupying order. Two inclusive ranges conflict iff s1<=e2 and s2<=e1.
func (c *Calendar) CanReserve(r daterange.DateRange) bool {
	for _, occ := range c.Occupied {
		if occ.Overlaps(r) {
			return false
		}
	}
	return true
}

// Conflicts returns the occupied ranges overlapping the request.
func (c *Calendar) Conflicts(r daterange.DateRange) []daterange.DateRange {
	var out []daterange.DateRange
	for _, occ := range c.Occupied {
		if occ.Overlaps(r) {
			out = append(out, occ)
		}
	}
	return out
}

// BlockedDates enumerates every date spanned by an occupying order,
// de-duplicated and sorted ascending.
func (c *Calendar) BlockedDates() []time.Time {
	seen := make(map[time.Time]struct{})
	for _, occ := range c.Occupied {
		for _, day := range occ.EachDay() {
			seen[day] = struct{}{}
		}
	}
	out := make([]time.Time, 0, len(seen))
	for day := range seen {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// NextAvailable scans forward day by day from today for up to horizonDays
// days and returns the first unblocked date. The second return value is
// false when every date within the horizon is blocked.
func (c *Calendar) NextAvailable(today time.Time, horizonDays int) (time.Time, bool) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	blocked := make(map[time.Time]struct{})
	for _, day := range c.BlockedDates() {
		blocked[day] = struct{}{}
	}
	start := daterange.Day(today)
	for i := 0; i < horizonDays; i++ {
		candidate := start.AddDate(0, 0, i)
		if _, ok := blocked[candidate]; !ok {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// Report is the answer to an item-level availability query.
type Report struct {
	ItemID        items.ItemID
	IsAvailable   bool
	BlockedDates  []time.Time
	NextAvailable time.Time
	HasNext       bool
}

// BuildReport assembles the blocked dates and the next open date for an
// item. IsAvailable reflects the item-level gate combined with whether
// today itself is blocked.
func (c *Calendar) BuildReport(rentable bool, today time.Time, horizonDays int) Report {
	report := Report{ItemID: c.ItemID, IsAvailable: rentable}
	report.BlockedDates = c.BlockedDates()
	if len(report.BlockedDates) == 0 {
		return report
	}
	next, ok := c.NextAvailable(today, horizonDays)
	report.NextAvailable = next
	report.HasNext = ok
	todayDay := daterange.Day(today)
	for _, day := range report.BlockedDates {
		if day.Equal(todayDay) {
			report.IsAvailable = false
			break
		}
	}
	return report
}
