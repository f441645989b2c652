package dto

import (
	"time"

	domainitems "sharetools/internal/domain/items"
)

// PriceTierDTO is the public shape of a duration/price pairing.
type PriceTierDTO struct {
	DurationDays int      `json:"duration_days"`
	Price        MoneyDTO `json:"price"`
	DailyRate    MoneyDTO `json:"daily_rate"`
	Active       bool     `json:"is_active"`
}

// ItemDetail is the full catalog view of an item.
type ItemDetail struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Condition    string         `json:"condition"`
	Status       string         `json:"status"`
	City         string         `json:"city"`
	Value        MoneyDTO       `json:"item_value"`
	Tiers        []PriceTierDTO `json:"prices"`
	MinDailyRate *MoneyDTO      `json:"min_daily_price,omitempty"`
	BookingCount int            `json:"booking_count"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ItemSummary is the catalog card.
type ItemSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Condition    string    `json:"condition"`
	Status       string    `json:"status"`
	City         string    `json:"city"`
	MinDailyRate *MoneyDTO `json:"min_daily_price,omitempty"`
}

// ItemCollection pages summaries.
type ItemCollection struct {
	Items []ItemSummary `json:"items"`
	Total int           `json:"total"`
}

func NewItemSummary(item *domainitems.Item) ItemSummary {
	summary := ItemSummary{
		ID:        string(item.ID),
		Title:     item.Title,
		Category:  item.Category,
		Condition: string(item.Condition),
		Status:    string(item.Status),
		City:      item.City,
	}
	if rate, ok := item.MinDailyRate(); ok {
		m := NewMoney(rate)
		summary.MinDailyRate = &m
	}
	return summary
}

func NewItemDetail(item *domainitems.Item) ItemDetail {
	detail := ItemDetail{
		ID:           string(item.ID),
		OwnerID:      string(item.Owner),
		Title:        item.Title,
		Description:  item.Description,
		Category:     item.Category,
		Condition:    string(item.Condition),
		Status:       string(item.Status),
		City:         item.City,
		Value:        NewMoney(item.Value),
		BookingCount: item.BookingCount,
		CreatedAt:    item.CreatedAt,
	}
	for _, tier := range item.Tiers {
		detail.Tiers = append(detail.Tiers, PriceTierDTO{
			DurationDays: tier.DurationDays,
			Price:        NewMoney(tier.Price),
			DailyRate:    NewMoney(tier.DailyRate()),
			Active:       tier.Active,
		})
	}
	if rate, ok := item.MinDailyRate(); ok {
		m := NewMoney(rate)
		detail.MinDailyRate = &m
	}
	return detail
}
