package items

import (
	"context"

	"sharetools/internal/app/dto"
	"sharetools/internal/app/handlers/support"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domainitems "sharetools/internal/domain/items"
)

const getItemKey = "items.get"

// GetItemQuery fetches the full catalog view of one item.
type GetItemQuery struct {
	ItemID string
}

func (q GetItemQuery) Key() string { return getItemKey }

type GetItemHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetItemHandler) Handle(ctx context.Context, q GetItemQuery) (dto.ItemDetail, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ItemDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	item, err := unit.Items().ByID(ctx, domainitems.ItemID(q.ItemID))
	if err != nil {
		return dto.ItemDetail{}, err
	}
	return dto.NewItemDetail(item), nil
}

var _ queries.Handler[GetItemQuery, dto.ItemDetail] = (*GetItemHandler)(nil)
