package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincart "sharetools/internal/domain/cart"
	domainitems "sharetools/internal/domain/items"
	domainrange "sharetools/internal/domain/shared/daterange"
	"sharetools/internal/domain/shared/money"
)

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection("agg_cart")}
}

func (r *CartRepository) ByUser(ctx context.Context, userID string) (*domaincart.Cart, error) {
	var doc cartDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincart.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CartRepository) Save(ctx context.Context, cart *domaincart.Cart) error {
	doc := cartDocument{
		ID:        cart.UserID,
		UpdatedAt: cart.UpdatedAt.UnixMilli(),
	}
	for _, line := range cart.Lines {
		doc.Lines = append(doc.Lines, cartLineDocument{
			ItemID:         string(line.ItemID),
			Start:          line.Range.Start.UnixMilli(),
			End:            line.Range.End.UnixMilli(),
			DailyRatePence: line.DailyRate.Amount,
			Currency:       line.DailyRate.Currency,
			AddedAt:        line.AddedAt.UnixMilli(),
		})
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type cartDocument struct {
	ID        string             `bson:"_id"`
	Lines     []cartLineDocument `bson:"lines"`
	UpdatedAt int64              `bson:"updated_at"`
}

type cartLineDocument struct {
	ItemID         string `bson:"item_id"`
	Start          int64  `bson:"start"`
	End            int64  `bson:"end"`
	DailyRatePence int64  `bson:"daily_rate_pence"`
	Currency       string `bson:"currency"`
	AddedAt        int64  `bson:"added_at"`
}

func (d cartDocument) toAggregate() *domaincart.Cart {
	cart := &domaincart.Cart{
		UserID:    d.ID,
		UpdatedAt: time.UnixMilli(d.UpdatedAt).UTC(),
	}
	for _, line := range d.Lines {
		cart.Lines = append(cart.Lines, domaincart.Line{
			ItemID: domainitems.ItemID(line.ItemID),
			Range: domainrange.DateRange{
				Start: time.UnixMilli(line.Start).UTC(),
				End:   time.UnixMilli(line.End).UTC(),
			},
			DailyRate: money.Money{Amount: line.DailyRatePence, Currency: line.Currency},
			AddedAt:   time.UnixMilli(line.AddedAt).UTC(),
		})
	}
	return cart
}
