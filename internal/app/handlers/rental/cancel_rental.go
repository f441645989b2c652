package rental

import (
	"context"
	"errors"
	"time"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	"sharetools/internal/app/outbox"
	"sharetools/internal/app/policies"
	"sharetools/internal/app/uow"
	domainrental "sharetools/internal/domain/rental"
)

const cancelRentalKey = "rental.cancel"

var ErrNotRenter = errors.New("rental: only the renter can cancel an order")

// CancelRentalCommand cancels an active order before its start date and
// refunds the charge.
type CancelRentalCommand struct {
	OrderID     string
	RequesterID string
	Reason      string
}

func (c CancelRentalCommand) Key() string { return cancelRentalKey }

type CancelRentalHandler struct {
	UoWFactory uow.UoWFactory
	Payments   policies.PaymentProcessor
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CancelRentalHandler) Handle(ctx context.Context, cmd CancelRentalCommand) (*dto.RentalOrder, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	order, err := unit.Rentals().ByID(ctx, domainrental.OrderID(cmd.OrderID))
	if err != nil {
		return nil, err
	}
	if order.RenterID != cmd.RequesterID {
		return nil, ErrNotRenter
	}
	if err := order.Cancel(cmd.Reason, now); err != nil {
		return nil, err
	}
	if h.Payments != nil && order.TransactionID != "" {
		if err := h.Payments.Refund(ctx, string(order.ID), order.TransactionID, order.Quote.TotalWithDeposit); err != nil {
			return nil, err
		}
	}
	if err := unit.Rentals().Save(ctx, order); err != nil {
		return nil, err
	}

	pending := order.PendingEvents()
	order.ClearEvents()
	encoder := h.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	out := dto.NewRentalOrder(order)
	return &out, nil
}

var _ commands.Handler[CancelRentalCommand, *dto.RentalOrder] = (*CancelRentalHandler)(nil)
