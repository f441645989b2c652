package pricing

import (
	"errors"
	"sort"

	"sharetools/internal/domain/shared/money"
)

var (
	ErrNoActiveTiers   = errors.New("pricing: item has no active price tiers")
	ErrInvalidDuration = errors.New("pricing: duration must be positive")
	ErrInvalidTier     = errors.New("pricing: tier duration must be one of the offered durations")
)

// OfferedDurations are the rental lengths an owner can price a tier for.
var OfferedDurations = []int{1, 3, 7, 30}

// PriceTier is a fixed duration/price pairing offered for an item. An item
// carries at most one tier per duration.
type PriceTier struct {
	DurationDays int
	Price        money.Money
	Active       bool
}

// Validate checks the tier against the offered duration set and price bounds.
func (t PriceTier) Validate() error {
	if !t.Price.IsPositive() {
		return errors.New("pricing: tier price must be positive")
	}
	for _, d := range OfferedDurations {
		if t.DurationDays == d {
			return nil
		}
	}
	return ErrInvalidTier
}

// DailyRate is the tier price divided by the tier's own duration, rounded
// half-up to the penny.
func (t PriceTier) DailyRate() money.Money {
	rate, err := t.Price.DivRound(int64(t.DurationDays))
	if err != nil {
		return money.Money{}
	}
	return rate
}

// Config carries the deployment-tunable pricing constants.
type Config struct {
	FallbackDailyRate money.Money
	ServiceFeePercent int64
	ServiceFeeMinimum money.Money
}

// DefaultConfig mirrors the documented defaults: £20.00/day fallback,
// 5% service fee with a £2.00 floor.
func DefaultConfig() Config {
	return Config{
		FallbackDailyRate: money.GBP(2000),
		ServiceFeePercent: 5,
		ServiceFeeMinimum: money.GBP(200),
	}
}

// HasActiveTiers reports whether at least one tier participates in pricing.
func HasActiveTiers(tiers []PriceTier) bool {
	for _, t := range tiers {
		if t.Active {
			return true
		}
	}
	return false
}

// ResolveDailyRate selects the billing rate for a requested duration:
// the cheapest active tier that fully covers the request, else the tier with
// the longest duration, else the configured fallback rate. It never fails;
// callers that treat tierless items as a data-quality problem should gate on
// HasActiveTiers before quoting.
func ResolveDailyRate(tiers []PriceTier, durationDays int, cfg Config) money.Money {
	active := make([]PriceTier, 0, len(tiers))
	for _, t := range tiers {
		if t.Active {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return cfg.FallbackDailyRate
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].DurationDays < active[j].DurationDays
	})
	for _, t := range active {
		if t.DurationDays >= durationDays {
			return t.DailyRate()
		}
	}
	// Request outlives every tier: pro-rate the longest one.
	return active[len(active)-1].DailyRate()
}

// Quote is the computed, non-persisted price breakdown shown to the renter
// before commitment. It is recomputed on every request since tiers may change.
type Quote struct {
	DailyRate        money.Money
	DurationDays     int
	TotalAmount      money.Money
	ServiceFee       money.Money
	SecurityDeposit  money.Money
	TotalWithDeposit money.Money
}

// CalculateQuote composes the resolved rate with the service-fee rule and the
// deposit. Pure; no persistence and no rounding beyond the penny amounts the
// inputs already carry.
func CalculateQuote(dailyRate money.Money, durationDays int, itemValue money.Money, cfg Config) (Quote, error) {
	if durationDays <= 0 {
		return Quote{}, ErrInvalidDuration
	}
	total := dailyRate.Multiply(int64(durationDays))
	fee, err := money.Max(total.PercentRound(cfg.ServiceFeePercent), cfg.ServiceFeeMinimum)
	if err != nil {
		return Quote{}, err
	}
	deposit := money.Money{Amount: 0, Currency: total.Currency}
	if itemValue.IsPositive() {
		deposit = itemValue
	}
	withFee, err := total.Add(fee)
	if err != nil {
		return Quote{}, err
	}
	withDeposit, err := withFee.Add(deposit)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		DailyRate:        dailyRate,
		DurationDays:     durationDays,
		TotalAmount:      total,
		ServiceFee:       fee,
		SecurityDeposit:  deposit,
		TotalWithDeposit: withDeposit,
	}, nil
}
