package dto

import (
	"time"

	domainreviews "sharetools/internal/domain/reviews"
)

type Review struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	ItemID     string    `json:"item_id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items []Review `json:"items"`
}

func NewReview(r *domainreviews.Review) Review {
	return Review{
		ID:         string(r.ID),
		OrderID:    string(r.OrderID),
		ItemID:     string(r.ItemID),
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Title:      r.Title,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}
