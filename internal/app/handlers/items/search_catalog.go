package items

import (
	"context"

	"sharetools/internal/app/dto"
	"sharetools/internal/app/handlers/support"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domainitems "sharetools/internal/domain/items"
)

const (
	searchCatalogKey = "items.search"
	myItemsKey       = "items.mine"
)

// SearchCatalogQuery filters the public catalog. Only rentable items are
// returned regardless of the status filter.
type SearchCatalogQuery struct {
	Query         string
	Category      string
	Condition     string
	City          string
	ValueMinPence int64
	ValueMaxPence int64
	Sort          string
	Limit         int
	Offset        int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

// MyItemsQuery lists every item an owner has, drafts included.
type MyItemsQuery struct {
	OwnerID string
}

func (q MyItemsQuery) Key() string { return myItemsKey }

type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.ItemCollection, error) {
	params := domainitems.SearchParams{
		Query:         q.Query,
		Category:      q.Category,
		Condition:     domainitems.Condition(q.Condition),
		City:          q.City,
		ValueMinPence: q.ValueMinPence,
		ValueMaxPence: q.ValueMaxPence,
		OnlyRentable:  true,
		Sort:          domainitems.CatalogSort(q.Sort),
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
	return h.search(ctx, params)
}

type MyItemsHandler struct {
	*SearchCatalogHandler
}

func (h *MyItemsHandler) Handle(ctx context.Context, q MyItemsQuery) (dto.ItemCollection, error) {
	params := domainitems.SearchParams{
		Owner: domainitems.OwnerID(q.OwnerID),
		Sort:  domainitems.SortByNewest,
	}
	return h.search(ctx, params)
}

func (h *SearchCatalogHandler) search(ctx context.Context, params domainitems.SearchParams) (dto.ItemCollection, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ItemCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	result, err := unit.Items().Search(ctx, params.Normalized())
	if err != nil {
		return dto.ItemCollection{}, err
	}
	collection := dto.ItemCollection{Total: result.Total, Items: make([]dto.ItemSummary, 0, len(result.Items))}
	for _, item := range result.Items {
		collection.Items = append(collection.Items, dto.NewItemSummary(item))
	}
	return collection, nil
}

var _ queries.Handler[SearchCatalogQuery, dto.ItemCollection] = (*SearchCatalogHandler)(nil)
var _ queries.Handler[MyItemsQuery, dto.ItemCollection] = (*MyItemsHandler)(nil)
