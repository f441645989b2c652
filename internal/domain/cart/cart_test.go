package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharetools/internal/domain/items"
	"sharetools/internal/domain/shared/daterange"
	"sharetools/internal/domain/shared/money"
)

var cartNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func line(t *testing.T, itemID string, startDay, endDay int, ratePence int64) Line {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, time.June, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, endDay, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return Line{ItemID: items.ItemID(itemID), Range: dr, DailyRate: money.GBP(ratePence), AddedAt: cartNow}
}

func TestPut(t *testing.T) {
	c, err := New("user-1")
	require.NoError(t, err)

	c.Put(line(t, "drill-1", 10, 12, 1500), cartNow)
	c.Put(line(t, "saw-1", 10, 10, 2000), cartNow)
	assert.Equal(t, 2, c.Count())

	// A second line for the same item replaces the first.
	c.Put(line(t, "drill-1", 20, 26, 1500), cartNow)
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 7, c.Lines[0].DurationDays())
}

func TestRemove(t *testing.T) {
	c, err := New("user-1")
	require.NoError(t, err)
	c.Put(line(t, "drill-1", 10, 12, 1500), cartNow)

	require.NoError(t, c.Remove(items.ItemID("drill-1"), cartNow))
	assert.Zero(t, c.Count())
	assert.ErrorIs(t, c.Remove(items.ItemID("drill-1"), cartNow), ErrLineNotFound)
}

func TestTotal(t *testing.T) {
	c, err := New("user-1")
	require.NoError(t, err)
	c.Put(line(t, "drill-1", 10, 12, 1500), cartNow) // 3 days x 15.00
	c.Put(line(t, "saw-1", 10, 10, 2000), cartNow)   // 1 day x 20.00

	assert.Equal(t, money.GBP(6500), c.Total())
}

func TestNewRequiresUser(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrUserRequired)
}
