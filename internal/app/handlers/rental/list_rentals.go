package rental

import (
	"context"
	"errors"

	"sharetools/internal/app/dto"
	"sharetools/internal/app/handlers/support"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domainrental "sharetools/internal/domain/rental"
)

const listRentalsKey = "rental.list"

// Role selects which side of the marketplace to list orders for.
type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
)

// ListRentalsQuery returns a user's orders grouped by status.
type ListRentalsQuery struct {
	UserID string
	Role   Role
}

func (q ListRentalsQuery) Key() string { return listRentalsKey }

func (q ListRentalsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("rental: user id required")
	}
	return nil
}

type ListRentalsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRentalsHandler) Handle(ctx context.Context, q ListRentalsQuery) (dto.RentalCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RentalCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	var orders []*domainrental.Order
	if q.Role == RoleOwner {
		orders, err = unit.Rentals().ListByOwner(ctx, q.UserID)
	} else {
		orders, err = unit.Rentals().ListByRenter(ctx, q.UserID)
	}
	if err != nil {
		return dto.RentalCollection{}, err
	}

	collection := dto.RentalCollection{Total: len(orders)}
	for _, order := range orders {
		view := dto.NewRentalOrder(order)
		switch order.Status {
		case domainrental.StatusCompleted:
			collection.Completed = append(collection.Completed, view)
		case domainrental.StatusCancelled:
			collection.Cancelled = append(collection.Cancelled, view)
		default:
			collection.Active = append(collection.Active, view)
		}
	}
	return collection, nil
}

var _ queries.Handler[ListRentalsQuery, dto.RentalCollection] = (*ListRentalsHandler)(nil)
