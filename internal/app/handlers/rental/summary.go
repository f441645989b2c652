package rental

import (
	"context"
	"sort"

	"sharetools/internal/app/dto"
	"sharetools/internal/app/handlers/support"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domainrental "sharetools/internal/domain/rental"
	"sharetools/internal/domain/shared/money"
)

const summaryKey = "rental.summary"

const recentOrdersLimit = 5

// SummaryQuery aggregates a renter's order statistics.
type SummaryQuery struct {
	UserID string
}

func (q SummaryQuery) Key() string { return summaryKey }

type SummaryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SummaryHandler) Handle(ctx context.Context, q SummaryQuery) (dto.RentalSummary, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RentalSummary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	orders, err := unit.Rentals().ListByRenter(ctx, q.UserID)
	if err != nil {
		return dto.RentalSummary{}, err
	}

	summary := dto.RentalSummary{TotalOrders: len(orders)}
	revenue := money.GBP(0)
	for _, order := range orders {
		switch order.Status {
		case domainrental.StatusCompleted:
			summary.CompletedOrders++
			if sum, err := revenue.Add(order.Quote.TotalAmount); err == nil {
				revenue = sum
			}
		case domainrental.StatusCancelled:
			summary.CancelledOrders++
		default:
			summary.ActiveOrders++
		}
	}
	summary.TotalRevenue = dto.NewMoney(revenue)

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	for i, order := range orders {
		if i == recentOrdersLimit {
			break
		}
		summary.RecentOrders = append(summary.RecentOrders, dto.NewRentalOrder(order))
	}
	return summary, nil
}

var _ queries.Handler[SummaryQuery, dto.RentalSummary] = (*SummaryHandler)(nil)
