package availability

import (
	"context"
	"time"

	"sharetools/internal/app/dto"
	"sharetools/internal/app/handlers/support"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domainavailability "sharetools/internal/domain/availability"
	"sharetools/internal/domain/items"
	"sharetools/internal/domain/shared/daterange"
)

const getAvailabilityKey = "availability.get"

// GetAvailabilityQuery answers whether an item can be rented right now,
// which dates are blocked, and when it next opens up.
type GetAvailabilityQuery struct {
	ItemID      string
	HorizonDays int
}

func (q GetAvailabilityQuery) Key() string { return getAvailabilityKey }

type GetAvailabilityHandler struct {
	UoWFactory uow.UoWFactory

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (h *GetAvailabilityHandler) Handle(ctx context.Context, q GetAvailabilityQuery) (dto.ItemAvailability, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ItemAvailability{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	item, err := unit.Items().ByID(ctx, items.ItemID(q.ItemID))
	if err != nil {
		return dto.ItemAvailability{}, err
	}

	occupying, err := unit.Rentals().OccupyingByItem(ctx, item.ID)
	if err != nil {
		return dto.ItemAvailability{}, err
	}
	occupied := make([]daterange.DateRange, 0, len(occupying))
	for _, order := range occupying {
		occupied = append(occupied, order.Range)
	}

	calendar := domainavailability.NewCalendar(item.ID, occupied)
	report := calendar.BuildReport(item.IsRentable(), h.now(), q.HorizonDays)
	return dto.NewItemAvailability(report), nil
}

func (h *GetAvailabilityHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ queries.Handler[GetAvailabilityQuery, dto.ItemAvailability] = (*GetAvailabilityHandler)(nil)
