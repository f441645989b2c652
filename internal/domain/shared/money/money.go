package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrDivisionByZero   = errors.New("money: division by zero")
)

// Money keeps amounts in integer minor units (pence) to avoid floating point issues.
type Money struct {
	Amount   int64
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	currency = strings.ToUpper(currency)
	return Money{Amount: amount, Currency: currency}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// GBP builds a pound-sterling amount from pence.
func GBP(pence int64) Money {
	return Money{Amount: pence, Currency: "GBP"}
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts other from the receiver.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// Neg returns the negated amount preserving currency.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// DivRound divides the amount rounding half-up to the nearest minor unit.
func (m Money) DivRound(divisor int64) (Money, error) {
	if divisor <= 0 {
		return Money{}, ErrDivisionByZero
	}
	amount := (2*m.Amount + divisor) / (2 * divisor)
	return Money{Amount: amount, Currency: m.Currency}, nil
}

// PercentRound returns pct% of the amount rounded half-up to the minor unit.
func (m Money) PercentRound(pct int64) Money {
	amount := (2*m.Amount*pct + 100) / 200
	return Money{Amount: amount, Currency: m.Currency}
}

// Max returns the larger of two same-currency amounts.
func Max(a, b Money) (Money, error) {
	if err := a.ensureSameCurrency(b); err != nil {
		return Money{}, err
	}
	if a.Amount >= b.Amount {
		return a, nil
	}
	return b, nil
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount > 0
}

// String renders the amount with two decimal places, e.g. "105.00 GBP".
func (m Money) String() string {
	units := m.Amount / 100
	cents := m.Amount % 100
	if cents < 0 {
		cents = -cents
	}
	return fmt.Sprintf("%d.%02d %s", units, cents, m.Currency)
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}
