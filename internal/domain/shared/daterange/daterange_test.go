package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	dr, err := New(start, end)
	require.NoError(t, err)
	return dr
}

func TestNew(t *testing.T) {
	t.Run("truncates to midnight UTC", func(t *testing.T) {
		dr, err := New(
			time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC),
			time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, day(2026, time.March, 10), dr.Start)
		assert.Equal(t, day(2026, time.March, 12), dr.End)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := New(day(2026, time.March, 12), day(2026, time.March, 10))
		assert.Error(t, err)
	})

	t.Run("single day range is valid", func(t *testing.T) {
		dr := mustRange(t, day(2026, time.March, 10), day(2026, time.March, 10))
		assert.Equal(t, 1, dr.Days())
	})
}

func TestDays(t *testing.T) {
	// Both endpoints count: 10th through 14th is five billable days.
	dr := mustRange(t, day(2026, time.March, 10), day(2026, time.March, 14))
	assert.Equal(t, 5, dr.Days())
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, day(2026, time.March, 10), day(2026, time.March, 14))

	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", mustRange(t, day(2026, time.March, 10), day(2026, time.March, 14)), true},
		{"contained", mustRange(t, day(2026, time.March, 11), day(2026, time.March, 12)), true},
		{"shares single end date", mustRange(t, day(2026, time.March, 14), day(2026, time.March, 20)), true},
		{"shares single start date", mustRange(t, day(2026, time.March, 5), day(2026, time.March, 10)), true},
		{"adjacent before", mustRange(t, day(2026, time.March, 5), day(2026, time.March, 9)), false},
		{"adjacent after", mustRange(t, day(2026, time.March, 15), day(2026, time.March, 20)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr := mustRange(t, day(2026, time.March, 10), day(2026, time.March, 12))
	assert.True(t, dr.ContainsDate(day(2026, time.March, 10)))
	assert.True(t, dr.ContainsDate(time.Date(2026, time.March, 12, 23, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsDate(day(2026, time.March, 13)))
}

func TestEachDay(t *testing.T) {
	dr := mustRange(t, day(2026, time.March, 10), day(2026, time.March, 12))
	days := dr.EachDay()
	require.Len(t, days, 3)
	assert.Equal(t, day(2026, time.March, 10), days[0])
	assert.Equal(t, day(2026, time.March, 12), days[2])
}
