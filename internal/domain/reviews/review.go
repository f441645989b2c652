package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"sharetools/internal/domain/items"
	"sharetools/internal/domain/rental"
	"sharetools/internal/domain/shared/events"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrEmptyContent  = errors.New("reviews: content is required")
	ErrNotFound      = errors.New("reviews: not found")
)

type ReviewID string

// Review is written by the renter of a completed order about the item's
// owner. One review per order.
type Review struct {
	ID         ReviewID
	OrderID    rental.OrderID
	ReviewerID string
	RevieweeID string
	ItemID     items.ItemID
	Rating     int
	Title      string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	ByOrder(ctx context.Context, orderID rental.OrderID) (*Review, error)
	ListByItem(ctx context.Context, itemID items.ItemID, limit, offset int) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID         ReviewID
	OrderID    rental.OrderID
	ReviewerID string
	RevieweeID string
	ItemID     items.ItemID
	Rating     int
	Title      string
	Content    string
	CreatedAt  time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	now := params.CreatedAt.UTC()
	review := &Review{
		ID:         params.ID,
		OrderID:    params.OrderID,
		ReviewerID: params.ReviewerID,
		RevieweeID: params.RevieweeID,
		ItemID:     params.ItemID,
		Rating:     params.Rating,
		Title:      strings.TrimSpace(params.Title),
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, OrderID: review.OrderID, ItemID: review.ItemID, Rating: review.Rating, At: now})
	return review, nil
}

func (r *Review) UpdateContent(title, content string, now time.Time) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	r.Title = strings.TrimSpace(title)
	r.Content = content
	r.UpdatedAt = now.UTC()
	r.Record(ReviewUpdated{ReviewID: r.ID, At: r.UpdatedAt})
	return nil
}
