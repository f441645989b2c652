package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharetools/internal/domain/items"
	"sharetools/internal/domain/shared/daterange"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rangeOf(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	return dr
}

func TestCanReserve(t *testing.T) {
	cal := NewCalendar(items.ItemID("drill-1"), []daterange.DateRange{
		rangeOf(t, day(2026, time.June, 10), day(2026, time.June, 12)),
	})

	assert.True(t, cal.CanReserve(rangeOf(t, day(2026, time.June, 13), day(2026, time.June, 15))))
	assert.False(t, cal.CanReserve(rangeOf(t, day(2026, time.June, 12), day(2026, time.June, 14))))
	assert.False(t, cal.CanReserve(rangeOf(t, day(2026, time.June, 8), day(2026, time.June, 10))))
}

func TestBlockedDates(t *testing.T) {
	cal := NewCalendar(items.ItemID("drill-1"), []daterange.DateRange{
		rangeOf(t, day(2026, time.June, 12), day(2026, time.June, 13)),
		rangeOf(t, day(2026, time.June, 10), day(2026, time.June, 12)),
	})

	blocked := cal.BlockedDates()
	require.Len(t, blocked, 4, "shared date must be de-duplicated")
	assert.Equal(t, day(2026, time.June, 10), blocked[0])
	assert.Equal(t, day(2026, time.June, 13), blocked[3])
}

func TestNextAvailable(t *testing.T) {
	today := day(2026, time.June, 10)

	t.Run("today when nothing is blocked", func(t *testing.T) {
		cal := NewCalendar(items.ItemID("drill-1"), nil)
		next, ok := cal.NextAvailable(today, DefaultHorizonDays)
		require.True(t, ok)
		assert.Equal(t, today, next)
	})

	t.Run("first gap after a block", func(t *testing.T) {
		cal := NewCalendar(items.ItemID("drill-1"), []daterange.DateRange{
			rangeOf(t, day(2026, time.June, 10), day(2026, time.June, 14)),
		})
		next, ok := cal.NextAvailable(today, DefaultHorizonDays)
		require.True(t, ok)
		assert.Equal(t, day(2026, time.June, 15), next)
	})

	t.Run("fully booked horizon yields nothing", func(t *testing.T) {
		cal := NewCalendar(items.ItemID("drill-1"), []daterange.DateRange{
			rangeOf(t, day(2026, time.June, 1), day(2026, time.August, 1)),
		})
		_, ok := cal.NextAvailable(today, DefaultHorizonDays)
		assert.False(t, ok)
	})
}

func TestBuildReport(t *testing.T) {
	today := day(2026, time.June, 10)

	t.Run("rentable with an open calendar", func(t *testing.T) {
		cal := NewCalendar(items.ItemID("drill-1"), nil)
		report := cal.BuildReport(true, today, DefaultHorizonDays)
		assert.True(t, report.IsAvailable)
		assert.Empty(t, report.BlockedDates)
		assert.False(t, report.HasNext)
	})

	t.Run("blocked today flips availability", func(t *testing.T) {
		cal := NewCalendar(items.ItemID("drill-1"), []daterange.DateRange{
			rangeOf(t, day(2026, time.June, 10), day(2026, time.June, 11)),
		})
		report := cal.BuildReport(true, today, DefaultHorizonDays)
		assert.False(t, report.IsAvailable)
		require.True(t, report.HasNext)
		assert.Equal(t, day(2026, time.June, 12), report.NextAvailable)
	})

	t.Run("unrentable item stays unavailable", func(t *testing.T) {
		cal := NewCalendar(items.ItemID("drill-1"), nil)
		report := cal.BuildReport(false, today, DefaultHorizonDays)
		assert.False(t, report.IsAvailable)
	})
}
