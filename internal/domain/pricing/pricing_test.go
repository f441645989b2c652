package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharetools/internal/domain/shared/money"
)

func standardTiers() []PriceTier {
	return []PriceTier{
		{DurationDays: 1, Price: money.GBP(2000), Active: true},
		{DurationDays: 3, Price: money.GBP(5400), Active: true},
		{DurationDays: 7, Price: money.GBP(10500), Active: true},
		{DurationDays: 30, Price: money.GBP(36000), Active: true},
	}
}

func TestPriceTierValidate(t *testing.T) {
	assert.NoError(t, PriceTier{DurationDays: 7, Price: money.GBP(100), Active: true}.Validate())
	assert.ErrorIs(t, PriceTier{DurationDays: 5, Price: money.GBP(100)}.Validate(), ErrInvalidTier)
	assert.Error(t, PriceTier{DurationDays: 7, Price: money.GBP(0)}.Validate())
}

func TestDailyRate(t *testing.T) {
	tier := PriceTier{DurationDays: 7, Price: money.GBP(10500), Active: true}
	assert.Equal(t, money.GBP(1500), tier.DailyRate())

	// Uneven division rounds half-up to the penny: 100.00 over 3 days.
	tier = PriceTier{DurationDays: 3, Price: money.GBP(10000), Active: true}
	assert.Equal(t, money.GBP(3333), tier.DailyRate())
}

func TestResolveDailyRate(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("first tier covering the duration wins", func(t *testing.T) {
		// Five days is covered by the 7-day tier: 105.00 / 7 = 15.00/day.
		rate := ResolveDailyRate(standardTiers(), 5, cfg)
		assert.Equal(t, money.GBP(1500), rate)
	})

	t.Run("exact duration match", func(t *testing.T) {
		rate := ResolveDailyRate(standardTiers(), 3, cfg)
		assert.Equal(t, money.GBP(1800), rate)
	})

	t.Run("request outlives every tier uses the longest", func(t *testing.T) {
		// 45 days exceeds the 30-day tier: 360.00 / 30 = 12.00/day.
		rate := ResolveDailyRate(standardTiers(), 45, cfg)
		assert.Equal(t, money.GBP(1200), rate)
	})

	t.Run("inactive tiers are ignored", func(t *testing.T) {
		tiers := []PriceTier{
			{DurationDays: 1, Price: money.GBP(500), Active: false},
			{DurationDays: 7, Price: money.GBP(10500), Active: true},
		}
		rate := ResolveDailyRate(tiers, 1, cfg)
		assert.Equal(t, money.GBP(1500), rate)
	})

	t.Run("no active tiers falls back to configured rate", func(t *testing.T) {
		rate := ResolveDailyRate(nil, 5, cfg)
		assert.Equal(t, money.GBP(2000), rate)
	})
}

func TestCalculateQuote(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("week at fifteen pounds a day with a deposit", func(t *testing.T) {
		quote, err := CalculateQuote(money.GBP(1500), 7, money.GBP(20000), cfg)
		require.NoError(t, err)
		assert.Equal(t, money.GBP(10500), quote.TotalAmount)
		assert.Equal(t, money.GBP(525), quote.ServiceFee)
		assert.Equal(t, money.GBP(20000), quote.SecurityDeposit)
		assert.Equal(t, money.GBP(31025), quote.TotalWithDeposit)
	})

	t.Run("service fee never drops below the floor", func(t *testing.T) {
		// 5% of 10.00 is 0.50, clamped to the 2.00 minimum.
		quote, err := CalculateQuote(money.GBP(1000), 1, money.GBP(0), cfg)
		require.NoError(t, err)
		assert.Equal(t, money.GBP(200), quote.ServiceFee)
		assert.Equal(t, money.GBP(0), quote.SecurityDeposit)
		assert.Equal(t, money.GBP(1200), quote.TotalWithDeposit)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := CalculateQuote(money.GBP(1500), 0, money.GBP(0), cfg)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})
}

func TestHasActiveTiers(t *testing.T) {
	assert.False(t, HasActiveTiers(nil))
	assert.False(t, HasActiveTiers([]PriceTier{{DurationDays: 1, Price: money.GBP(100)}}))
	assert.True(t, HasActiveTiers(standardTiers()))
}
