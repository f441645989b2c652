package reviews

import (
	"context"
	"errors"
	"time"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	"sharetools/internal/app/outbox"
	"sharetools/internal/app/uow"
	domainrental "sharetools/internal/domain/rental"
	domainreviews "sharetools/internal/domain/reviews"
)

const submitReviewKey = "reviews.submit"

var (
	ErrOrderNotCompleted = errors.New("reviews: order is not completed")
	ErrNotRenter         = errors.New("reviews: only the renter may review the order")
	ErrAlreadyReviewed   = errors.New("reviews: order already reviewed")
)

// SubmitReviewCommand records the renter's review of a completed order.
type SubmitReviewCommand struct {
	CommandID   string
	OrderID     string
	RequesterID string
	Rating      int
	Title       string
	Content     string
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

func (c SubmitReviewCommand) Validate() error {
	if c.CommandID == "" || c.OrderID == "" || c.RequesterID == "" {
		return errors.New("reviews: command, order and requester are required")
	}
	if c.Rating < 1 || c.Rating > 5 {
		return domainreviews.ErrInvalidRating
	}
	return nil
}

type SubmitReviewResult struct {
	Review dto.Review `json:"review"`
}

type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
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

	order, err := unit.Rentals().ByID(ctx, domainrental.OrderID(cmd.OrderID))
	if err != nil {
		return nil, err
	}
	if order.RenterID != cmd.RequesterID {
		return nil, ErrNotRenter
	}
	if order.Status != domainrental.StatusCompleted {
		return nil, ErrOrderNotCompleted
	}
	if existing, err := unit.Reviews().ByOrder(ctx, order.ID); err == nil && existing != nil {
		return nil, ErrAlreadyReviewed
	} else if err != nil && !errors.Is(err, domainreviews.ErrNotFound) {
		return nil, err
	}

	now := h.now()
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:         domainreviews.ReviewID(cmd.CommandID),
		OrderID:    order.ID,
		ReviewerID: order.RenterID,
		RevieweeID: order.OwnerID,
		ItemID:     order.ItemID,
		Rating:     cmd.Rating,
		Title:      cmd.Title,
		Content:    cmd.Content,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}

	pending := review.PendingEvents()
	review.ClearEvents()
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
	return &SubmitReviewResult{Review: dto.NewReview(review)}, nil
}

func (h *SubmitReviewHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[SubmitReviewCommand, *SubmitReviewResult] = (*SubmitReviewHandler)(nil)
