package cart

import (
	"context"
	"errors"
	"time"

	"sharetools/internal/domain/items"
	"sharetools/internal/domain/shared/daterange"
	"sharetools/internal/domain/shared/money"
)

var (
	ErrUserRequired = errors.New("cart: user id required")
	ErrLineNotFound = errors.New("cart: item not in cart")
	ErrNotFound     = errors.New("cart: not found")
)

// Line is a prospective rental kept in the cart: the item, the requested
// range and the daily rate resolved when it was added. Rates are refreshed
// against live tiers when the cart is read, so a stale line never locks in
// an old price.
type Line struct {
	ItemID    items.ItemID
	Range     daterange.DateRange
	DailyRate money.Money
	AddedAt   time.Time
}

// DurationDays counts both endpoints, same as the booking flow.
func (l Line) DurationDays() int {
	return l.Range.Days()
}

// Total is the line's rate multiplied by its duration.
func (l Line) Total() money.Money {
	return l.DailyRate.Multiply(int64(l.DurationDays()))
}

// Cart holds at most one line per item for a single user.
type Cart struct {
	UserID    string
	Lines     []Line
	UpdatedAt time.Time
}

type Repository interface {
	ByUser(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

func New(userID string) (*Cart, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	return &Cart{UserID: userID}, nil
}

// Put adds a line, replacing any existing line for the same item.
func (c *Cart) Put(line Line, now time.Time) {
	for i, existing := range c.Lines {
		if existing.ItemID == line.ItemID {
			c.Lines[i] = line
			c.UpdatedAt = now.UTC()
			return
		}
	}
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = now.UTC()
}

// Remove drops the line for the given item.
func (c *Cart) Remove(itemID items.ItemID, now time.Time) error {
	for i, line := range c.Lines {
		if line.ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = now.UTC()
			return nil
		}
	}
	return ErrLineNotFound
}

// Total sums every line total. Lines are same-currency by construction.
func (c *Cart) Total() money.Money {
	var total money.Money
	for i, line := range c.Lines {
		if i == 0 {
			total = line.Total()
			continue
		}
		sum, err := total.Add(line.Total())
		if err != nil {
			continue
		}
		total = sum
	}
	return total
}

// Count returns the number of lines.
func (c *Cart) Count() int {
	return len(c.Lines)
}
