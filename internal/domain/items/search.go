package items

import "strings"

// CatalogSort defines a supported ordering.
type CatalogSort string

const (
	SortByDailyRateAsc  CatalogSort = "rate_asc"
	SortByDailyRateDesc CatalogSort = "rate_desc"
	SortByNewest        CatalogSort = "newest"
	SortByPopularity    CatalogSort = "popularity"

	defaultSearchLimit = 24
	maxSearchLimit     = 60
)

// SearchParams describe catalog filters and paging options.
type SearchParams struct {
	Owner         OwnerID
	Query         string
	Category      string
	Condition     Condition
	City          string
	ValueMinPence int64
	ValueMaxPence int64
	Statuses      []ItemStatus
	OnlyRentable  bool
	Sort          CatalogSort
	Limit         int
	Offset        int
}

// SearchResult pairs a page of matches with the total count.
type SearchResult struct {
	Items []*Item
	Total int
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.Query = strings.TrimSpace(strings.ToLower(normalized.Query))
	normalized.Category = strings.TrimSpace(strings.ToLower(normalized.Category))
	normalized.City = strings.TrimSpace(strings.ToLower(normalized.City))
	if normalized.ValueMinPence < 0 {
		normalized.ValueMinPence = 0
	}
	if normalized.ValueMaxPence > 0 && normalized.ValueMaxPence < normalized.ValueMinPence {
		normalized.ValueMaxPence = 0
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultSearchLimit
	}
	if normalized.Limit > maxSearchLimit {
		normalized.Limit = maxSearchLimit
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	switch normalized.Sort {
	case SortByDailyRateAsc, SortByDailyRateDesc, SortByNewest, SortByPopularity:
	default:
		normalized.Sort = SortByNewest
	}
	return normalized
}

// Matches applies every filter except paging and ordering.
func (p SearchParams) Matches(item *Item) bool {
	if p.OnlyRentable && !item.IsRentable() {
		return false
	}
	if p.Owner != "" && item.Owner != p.Owner {
		return false
	}
	if len(p.Statuses) > 0 {
		found := false
		for _, s := range p.Statuses {
			if item.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.Category != "" && !strings.EqualFold(item.Category, p.Category) {
		return false
	}
	if p.Condition != "" && item.Condition != p.Condition {
		return false
	}
	if p.City != "" && !strings.EqualFold(item.City, p.City) {
		return false
	}
	if p.ValueMinPence > 0 && item.Value.Amount < p.ValueMinPence {
		return false
	}
	if p.ValueMaxPence > 0 && item.Value.Amount > p.ValueMaxPence {
		return false
	}
	if p.Query != "" {
		title := strings.ToLower(item.Title)
		desc := strings.ToLower(item.Description)
		if !strings.Contains(title, p.Query) && !strings.Contains(desc, p.Query) {
			return false
		}
	}
	return true
}
