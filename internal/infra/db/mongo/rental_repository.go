package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainitems "sharetools/internal/domain/items"
	domainpricing "sharetools/internal/domain/pricing"
	domainrental "sharetools/internal/domain/rental"
	domainrange "sharetools/internal/domain/shared/daterange"
	"sharetools/internal/domain/shared/money"
)

type RentalRepository struct {
	col *mongo.Collection
}

func NewRentalRepository(db *mongo.Database) *RentalRepository {
	return &RentalRepository{col: db.Collection("agg_rental")}
}

func (r *RentalRepository) ByID(ctx context.Context, id domainrental.OrderID) (*domainrental.Order, error) {
	var doc orderDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrental.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save persists the order. On first insert of an occupying order it
// re-queries for overlapping occupying orders inside the same session
// transaction, so a race that slipped past the calendar read is rejected
// before the document lands.
func (r *RentalRepository) Save(ctx context.Context, order *domainrental.Order) error {
	if order.Version == 0 && order.Status.IsOccupying() {
		conflict, err := r.hasOverlap(ctx, order)
		if err != nil {
			return err
		}
		if conflict {
			return domainrental.ErrDateConflict
		}
	}
	doc := newOrderDocument(order)
	filter := bson.M{"_id": doc.ID, "version": order.Version}
	doc.Version = order.Version + 1
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
	order.Version = doc.Version
	return nil
}

func (r *RentalRepository) hasOverlap(ctx context.Context, order *domainrental.Order) (bool, error) {
	filter := bson.M{
		"item_id": string(order.ItemID),
		"_id":     bson.M{"$ne": string(order.ID)},
		"status":  bson.M{"$in": occupyingStatuses()},
		"range.start": bson.M{"$lte": order.Range.End.UnixMilli()},
		"range.end":   bson.M{"$gte": order.Range.Start.UnixMilli()},
	}
	count, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RentalRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainrental.Order, error) {
	return r.find(ctx, bson.M{"renter_id": renterID})
}

func (r *RentalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainrental.Order, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *RentalRepository) OccupyingByItem(ctx context.Context, itemID domainitems.ItemID) ([]*domainrental.Order, error) {
	return r.find(ctx, bson.M{
		"item_id": string(itemID),
		"status":  bson.M{"$in": occupyingStatuses()},
	})
}

func (r *RentalRepository) DueForCompletion(ctx context.Context, asOf time.Time) ([]*domainrental.Order, error) {
	return r.find(ctx, bson.M{
		"status":    string(domainrental.StatusActive),
		"range.end": bson.M{"$lt": asOf.UnixMilli()},
	})
}

func (r *RentalRepository) find(ctx context.Context, filter bson.M) ([]*domainrental.Order, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	orders := make([]*domainrental.Order, 0)
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		orders = append(orders, doc.toAggregate())
	}
	return orders, cursor.Err()
}

func occupyingStatuses() []string {
	return []string{string(domainrental.StatusRequested), string(domainrental.StatusActive)}
}

type orderDocument struct {
	ID            string        `bson:"_id"`
	ItemID        string        `bson:"item_id"`
	RenterID      string        `bson:"renter_id"`
	OwnerID       string        `bson:"owner_id"`
	Range         rangeDocument `bson:"range"`
	Quote         quoteDocument `bson:"quote"`
	Status        string        `bson:"status"`
	PaymentMethod string        `bson:"payment_method"`
	PaymentDate   int64         `bson:"payment_date"`
	TransactionID string        `bson:"transaction_id"`
	RenterNotes   string        `bson:"renter_notes"`
	CreatedAt     int64         `bson:"created_at"`
	UpdatedAt     int64         `bson:"updated_at"`
	CompletedAt   int64         `bson:"completed_at"`
	Version       int64         `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

type quoteDocument struct {
	DailyRatePence        int64  `bson:"daily_rate_pence"`
	DurationDays          int    `bson:"duration_days"`
	TotalPence            int64  `bson:"total_pence"`
	ServiceFeePence       int64  `bson:"service_fee_pence"`
	DepositPence          int64  `bson:"deposit_pence"`
	TotalWithDepositPence int64  `bson:"total_with_deposit_pence"`
	Currency              string `bson:"currency"`
}

func newOrderDocument(o *domainrental.Order) orderDocument {
	doc := orderDocument{
		ID:       string(o.ID),
		ItemID:   string(o.ItemID),
		RenterID: o.RenterID,
		OwnerID:  o.OwnerID,
		Range:    rangeDocument{Start: o.Range.Start.UnixMilli(), End: o.Range.End.UnixMilli()},
		Quote: quoteDocument{
			DailyRatePence:        o.Quote.DailyRate.Amount,
			DurationDays:          o.Quote.DurationDays,
			TotalPence:            o.Quote.TotalAmount.Amount,
			ServiceFeePence:       o.Quote.ServiceFee.Amount,
			DepositPence:          o.Quote.SecurityDeposit.Amount,
			TotalWithDepositPence: o.Quote.TotalWithDeposit.Amount,
			Currency:              o.Quote.TotalAmount.Currency,
		},
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		TransactionID: o.TransactionID,
		RenterNotes:   o.RenterNotes,
		CreatedAt:     o.CreatedAt.UnixMilli(),
		UpdatedAt:     o.UpdatedAt.UnixMilli(),
		Version:       o.Version,
	}
	if !o.PaymentDate.IsZero() {
		doc.PaymentDate = o.PaymentDate.UnixMilli()
	}
	if !o.CompletedAt.IsZero() {
		doc.CompletedAt = o.CompletedAt.UnixMilli()
	}
	return doc
}

func (d orderDocument) toAggregate() *domainrental.Order {
	currency := d.Quote.Currency
	order := &domainrental.Order{
		ID:       domainrental.OrderID(d.ID),
		ItemID:   domainitems.ItemID(d.ItemID),
		RenterID: d.RenterID,
		OwnerID:  d.OwnerID,
		Range: domainrange.DateRange{
			Start: timestampToTime(d.Range.Start),
			End:   timestampToTime(d.Range.End),
		},
		Quote: domainpricing.Quote{
			DailyRate:        money.Money{Amount: d.Quote.DailyRatePence, Currency: currency},
			DurationDays:     d.Quote.DurationDays,
			TotalAmount:      money.Money{Amount: d.Quote.TotalPence, Currency: currency},
			ServiceFee:       money.Money{Amount: d.Quote.ServiceFeePence, Currency: currency},
			SecurityDeposit:  money.Money{Amount: d.Quote.DepositPence, Currency: currency},
			TotalWithDeposit: money.Money{Amount: d.Quote.TotalWithDepositPence, Currency: currency},
		},
		Status:        domainrental.OrderStatus(d.Status),
		PaymentMethod: domainrental.PaymentMethod(d.PaymentMethod),
		TransactionID: d.TransactionID,
		RenterNotes:   d.RenterNotes,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Version:       d.Version,
	}
	if d.PaymentDate != 0 {
		order.PaymentDate = timestampToTime(d.PaymentDate)
	}
	if d.CompletedAt != 0 {
		order.CompletedAt = timestampToTime(d.CompletedAt)
	}
	return order
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
