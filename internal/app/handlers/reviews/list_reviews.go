package reviews

import (
	"context"

	"sharetools/internal/app/dto"
	"sharetools/internal/app/handlers/support"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domainitems "sharetools/internal/domain/items"
)

const listReviewsKey = "reviews.list"

// ListReviewsQuery pages the reviews attached to an item.
type ListReviewsQuery struct {
	ItemID string
	Limit  int
	Offset int
}

func (q ListReviewsQuery) Key() string { return listReviewsKey }

type ListReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListReviewsHandler) Handle(ctx context.Context, q ListReviewsQuery) (dto.ReviewCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	limit := q.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	list, err := unit.Reviews().ListByItem(ctx, domainitems.ItemID(q.ItemID), limit, offset)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	collection := dto.ReviewCollection{Items: make([]dto.Review, 0, len(list))}
	for _, review := range list {
		collection.Items = append(collection.Items, dto.NewReview(review))
	}
	return collection, nil
}

var _ queries.Handler[ListReviewsQuery, dto.ReviewCollection] = (*ListReviewsHandler)(nil)
