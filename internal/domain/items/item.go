package items

import (
	"context"
	"errors"
	"strings"
	"time"

	"sharetools/internal/domain/pricing"
	"sharetools/internal/domain/shared/events"
	"sharetools/internal/domain/shared/money"
)

var (
	ErrTitleRequired   = errors.New("items: title is required")
	ErrOwnerRequired   = errors.New("items: owner is required")
	ErrValueRequired   = errors.New("items: item value must be positive")
	ErrInvalidState    = errors.New("items: invalid status transition")
	ErrDuplicateTier   = errors.New("items: a tier for this duration already exists")
	ErrItemNotFound    = errors.New("items: not found")
)

type ItemID string
type OwnerID string

type ItemStatus string

const (
	StatusDraft       ItemStatus = "DRAFT"
	StatusActive      ItemStatus = "ACTIVE"
	StatusRented      ItemStatus = "RENTED"
	StatusMaintenance ItemStatus = "MAINTENANCE"
	StatusInactive    ItemStatus = "INACTIVE"
)

type Condition string

const (
	ConditionNew       Condition = "NEW"
	ConditionExcellent Condition = "EXCELLENT"
	ConditionGood      Condition = "GOOD"
	ConditionFair      Condition = "FAIR"
	ConditionPoor      Condition = "POOR"
)

// Item is a rentable thing offered by its owner, priced through duration
// tiers. Value doubles as the security deposit charged on rental.
type Item struct {
	ID           ItemID
	Owner        OwnerID
	Title        string
	Description  string
	Category     string
	Condition    Condition
	Status       ItemStatus
	Value        money.Money
	Tiers        []pricing.PriceTier
	City         string
	ViewCount    int
	BookingCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PublishedAt  time.Time
	Version      int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ItemID) (*Item, error)
	Save(ctx context.Context, item *Item) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateParams struct {
	ID          ItemID
	Owner       OwnerID
	Title       string
	Description string
	Category    string
	Condition   Condition
	Value       money.Money
	City        string
	Tiers       []pricing.PriceTier
	Now         time.Time
}

func NewItem(params CreateParams) (*Item, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("items: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if !params.Value.IsPositive() {
		return nil, ErrValueRequired
	}
	condition := params.Condition
	if condition == "" {
		condition = ConditionGood
	}
	now := params.Now.UTC()
	item := &Item{
		ID:          params.ID,
		Owner:       params.Owner,
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Category:    params.Category,
		Condition:   condition,
		Status:      StatusDraft,
		Value:       params.Value,
		City:        params.City,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, tier := range params.Tiers {
		if err := item.SetTier(tier, now); err != nil {
			return nil, err
		}
	}
	item.Record(ItemCreated{ItemID: item.ID, Owner: item.Owner, At: now})
	return item, nil
}

// IsRentable is the item-level availability gate, distinct from the
// date-range conflict check performed on booking.
func (i *Item) IsRentable() bool {
	return i.Status == StatusActive
}

// Publish moves a draft or inactive item into the active catalog.
func (i *Item) Publish(now time.Time) error {
	switch i.Status {
	case StatusDraft, StatusInactive, StatusMaintenance:
	default:
		return ErrInvalidState
	}
	if !pricing.HasActiveTiers(i.Tiers) {
		return pricing.ErrNoActiveTiers
	}
	i.Status = StatusActive
	i.PublishedAt = now.UTC()
	i.UpdatedAt = now.UTC()
	i.Record(ItemPublished{ItemID: i.ID, At: i.UpdatedAt})
	return nil
}

// Unpublish withdraws the item from the catalog without deleting it.
func (i *Item) Unpublish(now time.Time) error {
	if i.Status != StatusActive {
		return ErrInvalidState
	}
	i.Status = StatusInactive
	i.UpdatedAt = now.UTC()
	return nil
}

// SetTier adds a price tier; one tier per duration is allowed.
func (i *Item) SetTier(tier pricing.PriceTier, now time.Time) error {
	if err := tier.Validate(); err != nil {
		return err
	}
	for _, existing := range i.Tiers {
		if existing.DurationDays == tier.DurationDays {
			return ErrDuplicateTier
		}
	}
	i.Tiers = append(i.Tiers, tier)
	i.UpdatedAt = now.UTC()
	return nil
}

// ActiveTiers returns the tiers participating in rate resolution.
func (i *Item) ActiveTiers() []pricing.PriceTier {
	active := make([]pricing.PriceTier, 0, len(i.Tiers))
	for _, t := range i.Tiers {
		if t.Active {
			active = append(active, t)
		}
	}
	return active
}

// MinDailyRate is the cheapest advertised daily rate across active tiers.
func (i *Item) MinDailyRate() (money.Money, bool) {
	var best money.Money
	found := false
	for _, t := range i.Tiers {
		if !t.Active {
			continue
		}
		rate := t.DailyRate()
		if !found || rate.Amount < best.Amount {
			best = rate
			found = true
		}
	}
	return best, found
}

// RecordBooking bumps the booking counter kept for catalog stats.
func (i *Item) RecordBooking(now time.Time) {
	i.BookingCount++
	i.UpdatedAt = now.UTC()
}
