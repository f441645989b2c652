package rental

import (
	"context"
	"time"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/outbox"
	"sharetools/internal/app/uow"
	"sharetools/internal/domain/shared/daterange"
)

const completeDueKey = "rental.complete_due"

// CompleteDueCommand transitions active orders past their end date to
// completed. Dispatched by the schedule worker, not by callers.
type CompleteDueCommand struct {
	AsOf time.Time
}

func (c CompleteDueCommand) Key() string { return completeDueKey }

type CompleteDueResult struct {
	Completed int `json:"completed"`
}

type CompleteDueHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CompleteDueHandler) Handle(ctx context.Context, cmd CompleteDueCommand) (*CompleteDueResult, error) {
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

	asOf := cmd.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	// Day granularity: an order stays active through the whole of its end
	// date, no matter what time the sweep runs.
	cutoff := daterange.Day(asOf)

	due, err := unit.Rentals().DueForCompletion(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	encoder := h.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	result := &CompleteDueResult{}
	for _, order := range due {
		if err := order.Complete(asOf); err != nil {
			continue
		}
		if err := unit.Rentals().Save(ctx, order); err != nil {
			return nil, err
		}
		pending := order.PendingEvents()
		order.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoder, pending); err != nil {
			return nil, err
		}
		result.Completed++
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return result, nil
}

var _ commands.Handler[CompleteDueCommand, *CompleteDueResult] = (*CompleteDueHandler)(nil)
