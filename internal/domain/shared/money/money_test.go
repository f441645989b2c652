package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("normalizes currency case", func(t *testing.T) {
		m, err := New(150, "gbp")
		require.NoError(t, err)
		assert.Equal(t, "GBP", m.Currency)
		assert.Equal(t, int64(150), m.Amount)
	})

	t.Run("rejects bad currency code", func(t *testing.T) {
		_, err := New(100, "POUNDS")
		assert.ErrorIs(t, err, ErrInvalidCurrency)
	})
}

func TestArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		sum, err := GBP(1050).Add(GBP(525))
		require.NoError(t, err)
		assert.Equal(t, GBP(1575), sum)
	})

	t.Run("add rejects currency mismatch", func(t *testing.T) {
		_, err := GBP(100).Add(Must(100, "USD"))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("multiply", func(t *testing.T) {
		assert.Equal(t, GBP(10500), GBP(1500).Multiply(7))
	})
}

func TestDivRound(t *testing.T) {
	cases := []struct {
		name    string
		amount  int64
		divisor int64
		want    int64
	}{
		{"even division", 10500, 7, 1500},
		{"rounds half up", 1001, 2, 501},
		{"rounds down below half", 1000, 3, 333},
		{"rounds up above half", 2000, 3, 667},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GBP(tc.amount).DivRound(tc.divisor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Amount)
		})
	}

	t.Run("rejects zero divisor", func(t *testing.T) {
		_, err := GBP(100).DivRound(0)
		assert.ErrorIs(t, err, ErrDivisionByZero)
	})
}

func TestPercentRound(t *testing.T) {
	assert.Equal(t, int64(525), GBP(10500).PercentRound(5).Amount)
	assert.Equal(t, int64(50), GBP(1000).PercentRound(5).Amount)
	// 5% of 1010 is 50.5, half-up to 51.
	assert.Equal(t, int64(51), GBP(1010).PercentRound(5).Amount)
}

func TestMax(t *testing.T) {
	got, err := Max(GBP(50), GBP(200))
	if assert.NoError(t, err) {
		assert.Equal(t, GBP(200), got)
	}
	_, err = Max(GBP(50), Must(200, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestString(t *testing.T) {
	assert.Equal(t, "105.00 GBP", GBP(10500).String())
	assert.Equal(t, "5.25 GBP", GBP(525).String())
}
