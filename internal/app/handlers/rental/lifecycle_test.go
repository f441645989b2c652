package rental

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainrental "sharetools/internal/domain/rental"
	"sharetools/internal/infra/storage/memory"
)

func createActiveOrder(t *testing.T, factory memory.Factory, processor *stubProcessor, renter string, startDay, endDay int) *CreateRentalResult {
	t.Helper()
	handler := newHandler(factory, processor)
	result, err := handler.Handle(context.Background(), createCommand("drill-1", renter, startDay, endDay))
	require.NoError(t, err)
	return result
}

func TestCancelRental(t *testing.T) {
	t.Run("renter cancels before the start date", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		processor := &stubProcessor{approve: true}
		created := createActiveOrder(t, factory, processor, "renter-1", 10, 14)

		cancel := &CancelRentalHandler{
			UoWFactory: factory,
			Payments:   processor,
			Outbox:     memory.NewOutbox(),
			Now:        func() time.Time { return testToday },
		}
		result, err := cancel.Handle(context.Background(), CancelRentalCommand{
			OrderID:     created.Order.ID,
			RequesterID: "renter-1",
			Reason:      "changed plans",
		})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Status)
		assert.Equal(t, 1, processor.refunds)

		// The dates are free again.
		createActiveOrder(t, factory, processor, "renter-2", 10, 14)
	})

	t.Run("only the renter may cancel", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		processor := &stubProcessor{approve: true}
		created := createActiveOrder(t, factory, processor, "renter-1", 10, 14)

		cancel := &CancelRentalHandler{
			UoWFactory: factory,
			Payments:   processor,
			Outbox:     memory.NewOutbox(),
			Now:        func() time.Time { return testToday },
		}
		_, err := cancel.Handle(context.Background(), CancelRentalCommand{
			OrderID:     created.Order.ID,
			RequesterID: "owner-1",
		})
		assert.ErrorIs(t, err, ErrNotRenter)
	})

	t.Run("cancellation closes on the start date", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		processor := &stubProcessor{approve: true}
		created := createActiveOrder(t, factory, processor, "renter-1", 10, 14)

		cancel := &CancelRentalHandler{
			UoWFactory: factory,
			Payments:   processor,
			Outbox:     memory.NewOutbox(),
			Now:        func() time.Time { return time.Date(2026, time.June, 10, 8, 0, 0, 0, time.UTC) },
		}
		_, err := cancel.Handle(context.Background(), CancelRentalCommand{
			OrderID:     created.Order.ID,
			RequesterID: "renter-1",
		})
		assert.ErrorIs(t, err, domainrental.ErrCancelCutoff)
		assert.Zero(t, processor.refunds)
	})
}

func TestCompleteDue(t *testing.T) {
	factory := memory.NewFactory()
	publishedItem(t, factory, "drill-1")
	processor := &stubProcessor{approve: true}
	created := createActiveOrder(t, factory, processor, "renter-1", 10, 14)

	complete := &CompleteDueHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
	}

	t.Run("nothing due before the end date", func(t *testing.T) {
		result, err := complete.Handle(context.Background(), CompleteDueCommand{
			AsOf: time.Date(2026, time.June, 14, 12, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Zero(t, result.Completed)
	})

	t.Run("past the end date the order completes", func(t *testing.T) {
		result, err := complete.Handle(context.Background(), CompleteDueCommand{
			AsOf: time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Completed)

		stored, err := factory.RentalsRepo.ByID(context.Background(), domainrental.OrderID(created.Order.ID))
		require.NoError(t, err)
		assert.Equal(t, domainrental.StatusCompleted, stored.Status)
	})
}

func TestListAndSummary(t *testing.T) {
	factory := memory.NewFactory()
	publishedItem(t, factory, "drill-1")
	processor := &stubProcessor{approve: true}
	createActiveOrder(t, factory, processor, "renter-1", 10, 14)
	createActiveOrder(t, factory, processor, "renter-1", 20, 22)

	t.Run("list groups by status", func(t *testing.T) {
		list := &ListRentalsHandler{UoWFactory: factory}
		collection, err := list.Handle(context.Background(), ListRentalsQuery{UserID: "renter-1", Role: "renter"})
		require.NoError(t, err)
		assert.Equal(t, 2, collection.Total)
		assert.Len(t, collection.Active, 2)
		assert.Empty(t, collection.Completed)
	})

	t.Run("owner view sees the same orders", func(t *testing.T) {
		list := &ListRentalsHandler{UoWFactory: factory}
		collection, err := list.Handle(context.Background(), ListRentalsQuery{UserID: "owner-1", Role: "owner"})
		require.NoError(t, err)
		assert.Equal(t, 2, collection.Total)
	})

	t.Run("summary counts and revenue", func(t *testing.T) {
		complete := &CompleteDueHandler{UoWFactory: factory, Outbox: memory.NewOutbox()}
		_, err := complete.Handle(context.Background(), CompleteDueCommand{
			AsOf: time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		summary := &SummaryHandler{UoWFactory: factory}
		result, err := summary.Handle(context.Background(), SummaryQuery{UserID: "renter-1"})
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalOrders)
		assert.Equal(t, 1, result.CompletedOrders)
		assert.Equal(t, 1, result.ActiveOrders)
		// Revenue counts the completed five-day order: 5 x 15.00 plus the fee.
		assert.Equal(t, int64(7875), result.TotalRevenue.Amount)
		assert.Len(t, result.RecentOrders, 2)
	})
}
