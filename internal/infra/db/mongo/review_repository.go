package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainitems "sharetools/internal/domain/items"
	domainrental "sharetools/internal/domain/rental"
	domainreviews "sharetools/internal/domain/reviews"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	col := db.Collection("agg_review")
	// One review per order.
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &ReviewRepository{col: col}
}

func (r *ReviewRepository) ByOrder(ctx context.Context, orderID domainrental.OrderID) (*domainreviews.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"order_id": string(orderID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreviews.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByItem(ctx context.Context, itemID domainitems.ItemID, limit, offset int) ([]*domainreviews.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(int64(offset))
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.col.Find(ctx, bson.M{"item_id": string(itemID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	reviews := make([]*domainreviews.Review, 0)
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, doc.toAggregate())
	}
	return reviews, cursor.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	doc := reviewDocument{
		ID:         string(review.ID),
		OrderID:    string(review.OrderID),
		ReviewerID: review.ReviewerID,
		RevieweeID: review.RevieweeID,
		ItemID:     string(review.ItemID),
		Rating:     review.Rating,
		Title:      review.Title,
		Content:    review.Content,
		CreatedAt:  review.CreatedAt.UnixMilli(),
		UpdatedAt:  review.UpdatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type reviewDocument struct {
	ID         string `bson:"_id"`
	OrderID    string `bson:"order_id"`
	ReviewerID string `bson:"reviewer_id"`
	RevieweeID string `bson:"reviewee_id"`
	ItemID     string `bson:"item_id"`
	Rating     int    `bson:"rating"`
	Title      string `bson:"title"`
	Content    string `bson:"content"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:         domainreviews.ReviewID(d.ID),
		OrderID:    domainrental.OrderID(d.OrderID),
		ReviewerID: d.ReviewerID,
		RevieweeID: d.RevieweeID,
		ItemID:     domainitems.ItemID(d.ItemID),
		Rating:     d.Rating,
		Title:      d.Title,
		Content:    d.Content,
		CreatedAt:  time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:  time.UnixMilli(d.UpdatedAt).UTC(),
	}
}
