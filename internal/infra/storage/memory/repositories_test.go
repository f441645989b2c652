package memory

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
)

var repoNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func storedOrder(t *testing.T, repo *RentalRepository, id string, startDay, endDay int, status domainrental.OrderStatus) *domainrental.Order {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, time.June, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, endDay, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	order, err := domainrental.NewOrder(domainrental.CreateParams{
		ID:       domainrental.OrderID(id),
		ItemID:   domainitems.ItemID("drill-1"),
		RenterID: "renter-" + id,
		OwnerID:  "owner-1",
		Range:    dr,
		Quote: domainpricing.Quote{
			DailyRate:        money.GBP(1500),
			DurationDays:     dr.Days(),
			TotalAmount:      money.GBP(int64(dr.Days()) * 1500),
			ServiceFee:       money.GBP(200),
			SecurityDeposit:  money.GBP(20000),
			TotalWithDeposit: money.GBP(int64(dr.Days())*1500 + 20200),
		},
		CreatedAt: repoNow,
	})
	require.NoError(t, err)
	if status == domainrental.StatusActive {
		require.NoError(t, order.Activate(domainrental.PaymentCreditCard, "TXN_00000001", repoNow))
	}
	require.NoError(t, repo.Save(context.Background(), order))
	return order
}

func TestRentalSaveOverlapBackstop(t *testing.T) {
	repo := NewRentalRepository()
	storedOrder(t, repo, "first", 10, 14, domainrental.StatusActive)

	t.Run("overlapping insert is refused", func(t *testing.T) {
		dr, err := daterange.New(
			time.Date(2026, time.June, 12, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.June, 16, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		conflicting, err := domainrental.NewOrder(domainrental.CreateParams{
			ID:        domainrental.OrderID("second"),
			ItemID:    domainitems.ItemID("drill-1"),
			RenterID:  "renter-2",
			OwnerID:   "owner-1",
			Range:     dr,
			Quote:     domainpricing.Quote{DailyRate: money.GBP(1500), DurationDays: 5, TotalAmount: money.GBP(7500), TotalWithDeposit: money.GBP(7500)},
			CreatedAt: repoNow,
		})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(context.Background(), conflicting), domainrental.ErrDateConflict)
	})

	t.Run("adjacent dates are fine", func(t *testing.T) {
		storedOrder(t, repo, "third", 15, 18, domainrental.StatusRequested)
	})

	t.Run("updating the stored order is not a conflict", func(t *testing.T) {
		first, err := repo.ByID(context.Background(), domainrental.OrderID("first"))
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), first))
	})

	t.Run("cancelled orders release their dates", func(t *testing.T) {
		first, err := repo.ByID(context.Background(), domainrental.OrderID("first"))
		require.NoError(t, err)
		require.NoError(t, first.Cancel("test", repoNow))
		require.NoError(t, repo.Save(context.Background(), first))

		storedOrder(t, repo, "fourth", 10, 14, domainrental.StatusRequested)
	})
}

func TestRentalQueries(t *testing.T) {
	repo := NewRentalRepository()
	active := storedOrder(t, repo, "a", 2, 4, domainrental.StatusActive)
	storedOrder(t, repo, "b", 10, 12, domainrental.StatusRequested)

	t.Run("occupying by item", func(t *testing.T) {
		orders, err := repo.OccupyingByItem(context.Background(), domainitems.ItemID("drill-1"))
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("due for completion", func(t *testing.T) {
		due, err := repo.DueForCompletion(context.Background(), time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, active.ID, due[0].ID)
	})

	t.Run("list by renter", func(t *testing.T) {
		orders, err := repo.ListByRenter(context.Background(), "renter-a")
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestItemSearch(t *testing.T) {
	repo := NewItemRepository()
	ctx := context.Background()

	add := func(id, title, city string, pricePence int64, publish bool, created time.Time) {
		item, err := domainitems.NewItem(domainitems.CreateParams{
			ID:    domainitems.ItemID(id),
			Owner: domainitems.OwnerID("owner-1"),
			Title: title,
			City:  city,
			Value: money.GBP(10000),
			Tiers: []domainpricing.PriceTier{{DurationDays: 1, Price: money.GBP(pricePence), Active: true}},
			Now:   created,
		})
		require.NoError(t, err)
		if publish {
			require.NoError(t, item.Publish(created))
		}
		require.NoError(t, repo.Save(ctx, item))
	}

	add("drill-1", "Cordless drill", "Leeds", 2000, true, repoNow)
	add("saw-1", "Circular saw", "Leeds", 1500, true, repoNow.Add(time.Hour))
	add("ladder-1", "Step ladder", "York", 800, false, repoNow.Add(2*time.Hour))

	t.Run("only rentable hides drafts", func(t *testing.T) {
		result, err := repo.Search(ctx, domainitems.SearchParams{OnlyRentable: true})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
	})

	t.Run("city filter", func(t *testing.T) {
		result, err := repo.Search(ctx, domainitems.SearchParams{City: "leeds", OnlyRentable: true})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
	})

	t.Run("text query on titles", func(t *testing.T) {
		result, err := repo.Search(ctx, domainitems.SearchParams{Query: "SAW", OnlyRentable: true})
		require.NoError(t, err)
		require.Equal(t, 1, result.Total)
		assert.Equal(t, domainitems.ItemID("saw-1"), result.Items[0].ID)
	})

	t.Run("rate ascending sort", func(t *testing.T) {
		result, err := repo.Search(ctx, domainitems.SearchParams{OnlyRentable: true, Sort: domainitems.SortByDailyRateAsc})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, domainitems.ItemID("saw-1"), result.Items[0].ID)
	})

	t.Run("owner listing includes drafts", func(t *testing.T) {
		result, err := repo.Search(ctx, domainitems.SearchParams{Owner: domainitems.OwnerID("owner-1")})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
	})

	t.Run("paging", func(t *testing.T) {
		result, err := repo.Search(ctx, domainitems.SearchParams{Owner: domainitems.OwnerID("owner-1"), Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.Len(t, result.Items, 2)
	})
}
