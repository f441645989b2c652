package mongo

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainitems "sharetools/internal/domain/items"
	domainpricing "sharetools/internal/domain/pricing"
	"sharetools/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection("agg_item")}
}

func (r *ItemRepository) ByID(ctx context.Context, id domainitems.ItemID) (*domainitems.Item, error) {
	var doc itemDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainitems.ErrItemNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domainitems.Item) error {
	doc := newItemDocument(item)
	filter := bson.M{"_id": doc.ID, "version": item.Version}
	doc.Version = item.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	item.Version = doc.Version
	return nil
}

// Search filters server-side where Mongo can and finishes in memory where
// the domain filter is richer than a query document.
func (r *ItemRepository) Search(ctx context.Context, params domainitems.SearchParams) (domainitems.SearchResult, error) {
	opts := params.Normalized()
	filter := bson.M{}
	if opts.Owner != "" {
		filter["owner_id"] = string(opts.Owner)
	}
	if opts.OnlyRentable {
		filter["status"] = string(domainitems.StatusActive)
	} else if len(opts.Statuses) > 0 {
		statuses := make([]string, 0, len(opts.Statuses))
		for _, s := range opts.Statuses {
			statuses = append(statuses, string(s))
		}
		filter["status"] = bson.M{"$in": statuses}
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return domainitems.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	matches := make([]*domainitems.Item, 0)
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainitems.SearchResult{}, err
		}
		item := doc.toAggregate()
		if opts.Matches(item) {
			matches = append(matches, item)
		}
	}
	if err := cursor.Err(); err != nil {
		return domainitems.SearchResult{}, err
	}

	sortItems(matches, opts.Sort)

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

type itemDocument struct {
	ID           string         `bson:"_id"`
	OwnerID      string         `bson:"owner_id"`
	Title        string         `bson:"title"`
	Description  string         `bson:"description"`
	Category     string         `bson:"category"`
	Condition    string         `bson:"condition"`
	Status       string         `bson:"status"`
	ValuePence   int64          `bson:"value_pence"`
	Currency     string         `bson:"currency"`
	Tiers        []tierDocument `bson:"tiers"`
	City         string         `bson:"city"`
	ViewCount    int            `bson:"view_count"`
	BookingCount int            `bson:"booking_count"`
	CreatedAt    int64          `bson:"created_at"`
	UpdatedAt    int64          `bson:"updated_at"`
	PublishedAt  int64          `bson:"published_at"`
	Version      int64          `bson:"version"`
}

type tierDocument struct {
	DurationDays int    `bson:"duration_days"`
	PricePence   int64  `bson:"price_pence"`
	Currency     string `bson:"currency"`
	Active       bool   `bson:"active"`
}

func newItemDocument(item *domainitems.Item) itemDocument {
	doc := itemDocument{
		ID:           string(item.ID),
		OwnerID:      string(item.Owner),
		Title:        item.Title,
		Description:  item.Description,
		Category:     item.Category,
		Condition:    string(item.Condition),
		Status:       string(item.Status),
		ValuePence:   item.Value.Amount,
		Currency:     item.Value.Currency,
		City:         item.City,
		ViewCount:    item.ViewCount,
		BookingCount: item.BookingCount,
		CreatedAt:    item.CreatedAt.UnixMilli(),
		UpdatedAt:    item.UpdatedAt.UnixMilli(),
		Version:      item.Version,
	}
	if !item.PublishedAt.IsZero() {
		doc.PublishedAt = item.PublishedAt.UnixMilli()
	}
	for _, tier := range item.Tiers {
		doc.Tiers = append(doc.Tiers, tierDocument{
			DurationDays: tier.DurationDays,
			PricePence:   tier.Price.Amount,
			Currency:     tier.Price.Currency,
			Active:       tier.Active,
		})
	}
	return doc
}

func (d itemDocument) toAggregate() *domainitems.Item {
	item := &domainitems.Item{
		ID:           domainitems.ItemID(d.ID),
		Owner:        domainitems.OwnerID(d.OwnerID),
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Condition:    domainitems.Condition(d.Condition),
		Status:       domainitems.ItemStatus(d.Status),
		Value:        money.Money{Amount: d.ValuePence, Currency: d.Currency},
		City:         d.City,
		ViewCount:    d.ViewCount,
		BookingCount: d.BookingCount,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
	if d.PublishedAt != 0 {
		item.PublishedAt = timestampToTime(d.PublishedAt)
	}
	for _, tier := range d.Tiers {
		item.Tiers = append(item.Tiers, domainpricing.PriceTier{
			DurationDays: tier.DurationDays,
			Price:        money.Money{Amount: tier.PricePence, Currency: tier.Currency},
			Active:       tier.Active,
		})
	}
	return item
}

func sortItems(matches []*domainitems.Item, by domainitems.CatalogSort) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		switch by {
		case domainitems.SortByDailyRateAsc:
			return minRatePence(a) < minRatePence(b)
		case domainitems.SortByDailyRateDesc:
			return minRatePence(a) > minRatePence(b)
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
	})
}

func minRatePence(item *domainitems.Item) int64 {
	if rate, ok := item.MinDailyRate(); ok {
		return rate.Amount
	}
	return 1<<63 - 1
}
