package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domaincart "sharetools/internal/domain/cart"
	domainitems "sharetools/internal/domain/items"
	domainrental "sharetools/internal/domain/rental"
	domainreviews "sharetools/internal/domain/reviews"
)

// ItemRepository is an in-memory item store used in dev and tests.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[domainitems.ItemID]*domainitems.Item
}

// NewItemRepository builds an empty repository.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[domainitems.ItemID]*domainitems.Item)}
}

// ByID returns an item or domainitems.ErrItemNotFound.
func (r *ItemRepository) ByID(ctx context.Context, id domainitems.ItemID) (*domainitems.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainitems.ErrItemNotFound
	}
	return item, nil
}

// Save stores or updates the item.
func (r *ItemRepository) Save(ctx context.Context, item *domainitems.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.Version++
	r.items[item.ID] = item
	return nil
}

// Search applies the catalog filters in memory.
func (r *ItemRepository) Search(ctx context.Context, params domainitems.SearchParams) (domainitems.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainitems.Item, 0, len(r.items))
	for _, item := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return domainitems.SearchResult{}, ctx.Err()
			default:
			}
		}
		if opts.Matches(item) {
			matches = append(matches, item)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return lessBySort(matches[i], matches[j], opts.Sort)
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainitems.SearchResult{Items: matches[start:end], Total: total}, nil
}

func lessBySort(a, b *domainitems.Item, sortBy domainitems.CatalogSort) bool {
	switch sortBy {
	case domainitems.SortByDailyRateAsc:
		return rateOf(a) < rateOf(b)
	case domainitems.SortByDailyRateDesc:
		return rateOf(a) > rateOf(b)
	case domainitems.SortByPopularity:
		if a.BookingCount == b.BookingCount {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.BookingCount > b.BookingCount
	default:
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
}

func rateOf(item *domainitems.Item) int64 {
	if rate, ok := item.MinDailyRate(); ok {
		return rate.Amount
	}
	return 1<<63 - 1
}

// RentalRepository stores rental orders in memory. Save re-checks the
// overlap invariant under the write lock, so concurrent create requests
// that both passed the calendar read cannot both insert.
type RentalRepository struct {
	mu     sync.RWMutex
	orders map[domainrental.OrderID]*domainrental.Order
}

// NewRentalRepository builds an empty order store.
func NewRentalRepository() *RentalRepository {
	return &RentalRepository{orders: make(map[domainrental.OrderID]*domainrental.Order)}
}

// ByID fetches an order or domainrental.ErrOrderNotFound.
func (r *RentalRepository) ByID(ctx context.Context, id domainrental.OrderID) (*domainrental.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, domainrental.ErrOrderNotFound
	}
	return order, nil
}

// Save inserts or updates an order. A first insert of an occupying order
// fails with domainrental.ErrDateConflict when another occupying order
// already covers any requested date.
func (r *RentalRepository) Save(ctx context.Context, order *domainrental.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; !exists && order.Status.IsOccupying() {
		for _, other := range r.orders {
			if other.ItemID != order.ItemID || !other.Status.IsOccupying() {
				continue
			}
			if other.Range.Overlaps(order.Range) {
				return domainrental.ErrDateConflict
			}
		}
	}
	order.Version++
	r.orders[order.ID] = order
	return nil
}

func (r *RentalRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainrental.Order, error) {
	return r.list(func(o *domainrental.Order) bool { return o.RenterID == renterID })
}

func (r *RentalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainrental.Order, error) {
	return r.list(func(o *domainrental.Order) bool { return o.OwnerID == ownerID })
}

// OccupyingByItem returns orders still reserving the item's calendar.
func (r *RentalRepository) OccupyingByItem(ctx context.Context, itemID domainitems.ItemID) ([]*domainrental.Order, error) {
	return r.list(func(o *domainrental.Order) bool {
		return o.ItemID == itemID && o.Status.IsOccupying()
	})
}

// DueForCompletion returns active orders whose end date is before asOf.
func (r *RentalRepository) DueForCompletion(ctx context.Context, asOf time.Time) ([]*domainrental.Order, error) {
	return r.list(func(o *domainrental.Order) bool {
		return o.Status == domainrental.StatusActive && o.Range.End.Before(asOf)
	})
}

func (r *RentalRepository) list(keep func(*domainrental.Order) bool) ([]*domainrental.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainrental.Order, 0)
	for _, order := range r.orders {
		if keep(order) {
			matches = append(matches, order)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// ReviewRepository is a lightweight in-memory review store.
type ReviewRepository struct {
	mu      sync.RWMutex
	byOrder map[domainrental.OrderID]*domainreviews.Review
}

// NewReviewRepository builds an empty review store.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{byOrder: make(map[domainrental.OrderID]*domainreviews.Review)}
}

// ByOrder locates the review for an order, one review per order.
func (r *ReviewRepository) ByOrder(ctx context.Context, orderID domainrental.OrderID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.byOrder[orderID]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	return review, nil
}

// ListByItem pages the reviews for an item, newest first.
func (r *ReviewRepository) ListByItem(ctx context.Context, itemID domainitems.ItemID, limit, offset int) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainreviews.Review, 0)
	for _, review := range r.byOrder {
		if review.ItemID == itemID {
			matches = append(matches, review)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if offset > len(matches) {
		offset = len(matches)
	}
	end := offset + limit
	if limit <= 0 || end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], nil
}

// Save writes the review entry keyed by its order.
func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[review.OrderID] = review
	return nil
}

// CartRepository keeps per-user carts in memory.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domaincart.Cart
}

// NewCartRepository builds an empty cart store.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]*domaincart.Cart)}
}

// ByUser fetches a cart or domaincart.ErrNotFound.
func (r *CartRepository) ByUser(ctx context.Context, userID string) (*domaincart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, domaincart.ErrNotFound
	}
	return cart, nil
}

// Save stores the cart.
func (r *CartRepository) Save(ctx context.Context, cart *domaincart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.UserID] = cart
	return nil
}
