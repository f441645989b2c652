package rental

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharetools/internal/app/policies"
	domainitems "sharetools/internal/domain/items"
	domainpricing "sharetools/internal/domain/pricing"
	domainrental "sharetools/internal/domain/rental"
	"sharetools/internal/domain/shared/money"
	"sharetools/internal/infra/storage/memory"
)

var testToday = time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

type stubProcessor struct {
	approve bool
	charges int
	refunds int
	mu      sync.Mutex
}

func (p *stubProcessor) Charge(ctx context.Context, orderID, method string, amount money.Money) (policies.ChargeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charges++
	if !p.approve {
		return policies.ChargeResult{Approved: false}, nil
	}
	return policies.ChargeResult{Approved: true, TransactionID: fmt.Sprintf("TXN_%08X", p.charges)}, nil
}

func (p *stubProcessor) Refund(ctx context.Context, orderID, transactionID string, amount money.Money) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refunds++
	return nil
}

func publishedItem(t *testing.T, factory memory.Factory, id string) *domainitems.Item {
	t.Helper()
	item, err := domainitems.NewItem(domainitems.CreateParams{
		ID:        domainitems.ItemID(id),
		Owner:     domainitems.OwnerID("owner-1"),
		Title:     "Cordless drill",
		Condition: domainitems.ConditionGood,
		Value:     money.GBP(20000),
		Tiers: []domainpricing.PriceTier{
			{DurationDays: 1, Price: money.GBP(2000), Active: true},
			{DurationDays: 7, Price: money.GBP(10500), Active: true},
		},
		Now: testToday,
	})
	require.NoError(t, err)
	require.NoError(t, item.Publish(testToday))
	item.ClearEvents()
	require.NoError(t, factory.ItemsRepo.Save(context.Background(), item))
	return item
}

func newHandler(factory memory.Factory, processor policies.PaymentProcessor) *CreateRentalHandler {
	return &CreateRentalHandler{
		UoWFactory: factory,
		Payments:   processor,
		Pricing:    domainpricing.DefaultConfig(),
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return testToday },
	}
}

func createCommand(item string, renter string, startDay, endDay int) CreateRentalCommand {
	return CreateRentalCommand{
		CommandID:     fmt.Sprintf("order-%s-%d-%d", renter, startDay, endDay),
		ItemID:        item,
		RenterID:      renter,
		StartDate:     time.Date(2026, time.June, startDay, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, time.June, endDay, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "credit_card",
	}
}

func TestCreateRental(t *testing.T) {
	factory := memory.NewFactory()
	publishedItem(t, factory, "drill-1")
	handler := newHandler(factory, &stubProcessor{approve: true})

	result, err := handler.Handle(context.Background(), createCommand("drill-1", "renter-1", 10, 14))
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, "ACTIVE", order.Status)
	assert.Contains(t, order.TransactionID, "TXN_")
	// Five days covered by the 7-day tier: 15.00/day.
	assert.Equal(t, int64(1500), order.Quote.DailyRate.Amount)
	assert.Equal(t, int64(7500), order.Quote.TotalAmount.Amount)
	assert.Equal(t, int64(375), order.Quote.ServiceFee.Amount)
	assert.Equal(t, int64(20000), order.Quote.SecurityDeposit.Amount)
	assert.Equal(t, int64(27875), order.Quote.TotalWithDeposit.Amount)

	stored, err := factory.RentalsRepo.ByID(context.Background(), domainrental.OrderID(order.ID))
	require.NoError(t, err)
	assert.Equal(t, domainrental.StatusActive, stored.Status)

	item, err := factory.ItemsRepo.ByID(context.Background(), domainitems.ItemID("drill-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, item.BookingCount)
}

func TestCreateRentalRejections(t *testing.T) {
	t.Run("item not rentable", func(t *testing.T) {
		factory := memory.NewFactory()
		item := publishedItem(t, factory, "drill-1")
		require.NoError(t, item.Unpublish(testToday))
		require.NoError(t, factory.ItemsRepo.Save(context.Background(), item))
		handler := newHandler(factory, &stubProcessor{approve: true})

		_, err := handler.Handle(context.Background(), createCommand("drill-1", "renter-1", 10, 14))
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domainrental.ReasonItemUnavailable, rej.Reason)
	})

	t.Run("owner cannot rent their own item", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		handler := newHandler(factory, &stubProcessor{approve: true})

		_, err := handler.Handle(context.Background(), createCommand("drill-1", "owner-1", 10, 14))
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domainrental.ReasonSelfRental, rej.Reason)
	})

	t.Run("start date in the past", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		handler := newHandler(factory, &stubProcessor{approve: true})

		cmd := createCommand("drill-1", "renter-1", 10, 14)
		cmd.StartDate = testToday.AddDate(0, 0, -2)
		_, err := handler.Handle(context.Background(), cmd)
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domainrental.ReasonInvalidDates, rej.Reason)
	})

	t.Run("end before start", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		handler := newHandler(factory, &stubProcessor{approve: true})

		_, err := handler.Handle(context.Background(), createCommand("drill-1", "renter-1", 14, 10))
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domainrental.ReasonInvalidDates, rej.Reason)
	})

	t.Run("overlapping dates report the blocking days", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		handler := newHandler(factory, &stubProcessor{approve: true})

		_, err := handler.Handle(context.Background(), createCommand("drill-1", "renter-1", 10, 14))
		require.NoError(t, err)

		_, err = handler.Handle(context.Background(), createCommand("drill-1", "renter-2", 12, 16))
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domainrental.ReasonDateConflict, rej.Reason)
		// The 12th, 13th and 14th collide with the standing order.
		assert.Len(t, rej.BlockedDates, 3)
	})

	t.Run("declined payment persists nothing", func(t *testing.T) {
		factory := memory.NewFactory()
		publishedItem(t, factory, "drill-1")
		handler := newHandler(factory, &stubProcessor{approve: false})

		_, err := handler.Handle(context.Background(), createCommand("drill-1", "renter-1", 10, 14))
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domainrental.ReasonPaymentDeclined, rej.Reason)

		orders, err := factory.RentalsRepo.OccupyingByItem(context.Background(), domainitems.ItemID("drill-1"))
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("item without active tiers", func(t *testing.T) {
		factory := memory.NewFactory()
		item, err := domainitems.NewItem(domainitems.CreateParams{
			ID:    domainitems.ItemID("drill-2"),
			Owner: domainitems.OwnerID("owner-1"),
			Title: "Untiered drill",
			Value: money.GBP(20000),
			Now:   testToday,
		})
		require.NoError(t, err)
		item.Status = domainitems.StatusActive
		require.NoError(t, factory.ItemsRepo.Save(context.Background(), item))
		handler := newHandler(factory, &stubProcessor{approve: true})

		_, err = handler.Handle(context.Background(), createCommand("drill-2", "renter-1", 10, 14))
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, domainrental.ReasonNoPricingData, rej.Reason)
	})
}

func TestCreateRentalConcurrentRequests(t *testing.T) {
	factory := memory.NewFactory()
	publishedItem(t, factory, "drill-1")
	handler := newHandler(factory, &stubProcessor{approve: true})

	const contenders = 8
	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := createCommand("drill-1", fmt.Sprintf("renter-%d", i), 10, 14)
			_, errs[i] = handler.Handle(context.Background(), cmd)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		rej, ok := domainrental.AsRejection(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, domainrental.ReasonDateConflict, rej.Reason)
	}
	assert.Equal(t, 1, succeeded, "exactly one competing request may win the dates")

	orders, err := factory.RentalsRepo.OccupyingByItem(context.Background(), domainitems.ItemID("drill-1"))
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
