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

const getRentalKey = "rental.get"

var ErrOrderAccess = errors.New("rental: only the renter or the owner can view an order")

// GetRentalQuery loads one order, visible to its renter and owner only.
type GetRentalQuery struct {
	OrderID     string
	RequesterID string
}

func (q GetRentalQuery) Key() string { return getRentalKey }

type GetRentalHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetRentalHandler) Handle(ctx context.Context, q GetRentalQuery) (dto.RentalOrder, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RentalOrder{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	order, err := unit.Rentals().ByID(ctx, domainrental.OrderID(q.OrderID))
	if err != nil {
		return dto.RentalOrder{}, err
	}
	if order.RenterID != q.RequesterID && order.OwnerID != q.RequesterID {
		return dto.RentalOrder{}, ErrOrderAccess
	}
	return dto.NewRentalOrder(order), nil
}

var _ queries.Handler[GetRentalQuery, dto.RentalOrder] = (*GetRentalHandler)(nil)
