package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainitems "sharetools/internal/domain/items"
	domainpricing "sharetools/internal/domain/pricing"
	domainrental "sharetools/internal/domain/rental"
	"sharetools/internal/domain/shared/daterange"
	"sharetools/internal/domain/shared/money"
	"sharetools/internal/infra/storage/memory"
)

func storedOrder(t *testing.T, factory memory.Factory, completed bool) *domainrental.Order {
	t.Helper()
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	rng, err := daterange.New(start, start.AddDate(0, 0, 4))
	require.NoError(t, err)
	order, err := domainrental.NewOrder(domainrental.CreateParams{
		ID:       "order-1",
		ItemID:   domainitems.ItemID("drill-1"),
		RenterID: "renter-1",
		OwnerID:  "owner-1",
		Range:    rng,
		Quote: domainpricing.Quote{
			DailyRate:        money.GBP(1500),
			DurationDays:     5,
			TotalAmount:      money.GBP(7875),
			ServiceFee:       money.GBP(375),
			SecurityDeposit:  money.GBP(20000),
			TotalWithDeposit: money.GBP(27875),
		},
		CreatedAt: start,
	})
	require.NoError(t, err)
	require.NoError(t, order.Activate(domainrental.PaymentCreditCard, "TXN_1A2B3C4D", start))
	if completed {
		require.NoError(t, order.Complete(start.AddDate(0, 0, 5)))
	}
	order.ClearEvents()
	require.NoError(t, factory.RentalsRepo.Save(context.Background(), order))
	return order
}

func submitCommand(requester string) SubmitReviewCommand {
	return SubmitReviewCommand{
		CommandID:   "review-1",
		OrderID:     "order-1",
		RequesterID: requester,
		Rating:      5,
		Title:       "Great drill",
		Content:     "Sharp bits, charged batteries.",
	}
}

func TestSubmitReview(t *testing.T) {
	t.Run("renter reviews a completed order", func(t *testing.T) {
		factory := memory.NewFactory()
		storedOrder(t, factory, true)
		handler := &SubmitReviewHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}

		result, err := handler.Handle(context.Background(), submitCommand("renter-1"))
		require.NoError(t, err)
		assert.Equal(t, "drill-1", result.Review.ItemID)
		assert.Equal(t, 5, result.Review.Rating)
	})

	t.Run("only the renter may review", func(t *testing.T) {
		factory := memory.NewFactory()
		storedOrder(t, factory, true)
		handler := &SubmitReviewHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}

		_, err := handler.Handle(context.Background(), submitCommand("owner-1"))
		assert.ErrorIs(t, err, ErrNotRenter)
	})

	t.Run("active orders cannot be reviewed yet", func(t *testing.T) {
		factory := memory.NewFactory()
		storedOrder(t, factory, false)
		handler := &SubmitReviewHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}

		_, err := handler.Handle(context.Background(), submitCommand("renter-1"))
		assert.ErrorIs(t, err, ErrOrderNotCompleted)
	})

	t.Run("one review per order", func(t *testing.T) {
		factory := memory.NewFactory()
		storedOrder(t, factory, true)
		handler := &SubmitReviewHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}

		_, err := handler.Handle(context.Background(), submitCommand("renter-1"))
		require.NoError(t, err)

		second := submitCommand("renter-1")
		second.CommandID = "review-2"
		_, err = handler.Handle(context.Background(), second)
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
	})

	t.Run("listing pages newest first", func(t *testing.T) {
		factory := memory.NewFactory()
		storedOrder(t, factory, true)
		handler := &SubmitReviewHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}
		_, err := handler.Handle(context.Background(), submitCommand("renter-1"))
		require.NoError(t, err)

		list := &ListReviewsHandler{UoWFactory: factory}
		collection, err := list.Handle(context.Background(), ListReviewsQuery{ItemID: "drill-1"})
		require.NoError(t, err)
		require.Len(t, collection.Items, 1)
		assert.Equal(t, "Great drill", collection.Items[0].Title)
	})
}
