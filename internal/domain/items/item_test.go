package items

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharetools/internal/domain/pricing"
	"sharetools/internal/domain/shared/money"
)

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func testItem(t *testing.T, tiers ...pricing.PriceTier) *Item {
	t.Helper()
	item, err := NewItem(CreateParams{
		ID:        ItemID("drill-1"),
		Owner:     OwnerID("owner-1"),
		Title:     "Cordless drill",
		Category:  "power-tools",
		Condition: ConditionGood,
		Value:     money.GBP(20000),
		City:      "Manchester",
		Tiers:     tiers,
		Now:       testNow,
	})
	require.NoError(t, err)
	return item
}

func TestNewItem(t *testing.T) {
	t.Run("starts as draft", func(t *testing.T) {
		item := testItem(t)
		assert.Equal(t, StatusDraft, item.Status)
		assert.False(t, item.IsRentable())
		events := item.PendingEvents()
		require.Len(t, events, 1)
		assert.IsType(t, ItemCreated{}, events[0])
	})

	t.Run("requires a title", func(t *testing.T) {
		_, err := NewItem(CreateParams{ID: ItemID("x"), Owner: OwnerID("o"), Value: money.GBP(100), Now: testNow})
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("requires a positive value", func(t *testing.T) {
		_, err := NewItem(CreateParams{ID: ItemID("x"), Owner: OwnerID("o"), Title: "Drill", Now: testNow})
		assert.ErrorIs(t, err, ErrValueRequired)
	})
}

func TestPublish(t *testing.T) {
	tier := pricing.PriceTier{DurationDays: 1, Price: money.GBP(2000), Active: true}

	t.Run("draft with an active tier goes live", func(t *testing.T) {
		item := testItem(t, tier)
		require.NoError(t, item.Publish(testNow))
		assert.Equal(t, StatusActive, item.Status)
		assert.True(t, item.IsRentable())
	})

	t.Run("refuses without active tiers", func(t *testing.T) {
		item := testItem(t)
		assert.ErrorIs(t, item.Publish(testNow), pricing.ErrNoActiveTiers)
	})

	t.Run("active item cannot publish again", func(t *testing.T) {
		item := testItem(t, tier)
		require.NoError(t, item.Publish(testNow))
		assert.ErrorIs(t, item.Publish(testNow), ErrInvalidState)
	})
}

func TestUnpublish(t *testing.T) {
	tier := pricing.PriceTier{DurationDays: 1, Price: money.GBP(2000), Active: true}
	item := testItem(t, tier)
	require.NoError(t, item.Publish(testNow))
	require.NoError(t, item.Unpublish(testNow))
	assert.Equal(t, StatusInactive, item.Status)
	assert.ErrorIs(t, item.Unpublish(testNow), ErrInvalidState)
}

func TestSetTier(t *testing.T) {
	item := testItem(t, pricing.PriceTier{DurationDays: 1, Price: money.GBP(2000), Active: true})

	t.Run("one tier per duration", func(t *testing.T) {
		err := item.SetTier(pricing.PriceTier{DurationDays: 1, Price: money.GBP(1800), Active: true}, testNow)
		assert.ErrorIs(t, err, ErrDuplicateTier)
	})

	t.Run("validates the duration", func(t *testing.T) {
		err := item.SetTier(pricing.PriceTier{DurationDays: 5, Price: money.GBP(1800), Active: true}, testNow)
		assert.ErrorIs(t, err, pricing.ErrInvalidTier)
	})
}

func TestMinDailyRate(t *testing.T) {
	t.Run("cheapest active daily rate", func(t *testing.T) {
		item := testItem(t,
			pricing.PriceTier{DurationDays: 1, Price: money.GBP(2000), Active: true},
			pricing.PriceTier{DurationDays: 7, Price: money.GBP(10500), Active: true},
		)
		rate, ok := item.MinDailyRate()
		require.True(t, ok)
		assert.Equal(t, money.GBP(1500), rate)
	})

	t.Run("no active tiers", func(t *testing.T) {
		item := testItem(t)
		_, ok := item.MinDailyRate()
		assert.False(t, ok)
	})
}
