package dto

import (
	"time"

	domaincart "sharetools/internal/domain/cart"
)

type CartLine struct {
	ItemID       string    `json:"item_id"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	DailyRate    MoneyDTO  `json:"daily_rate"`
	LineTotal    MoneyDTO  `json:"line_total"`
	AddedAt      time.Time `json:"added_at"`
}

type Cart struct {
	UserID string     `json:"user_id"`
	Lines  []CartLine `json:"items"`
	Count  int        `json:"items_count"`
	Total  MoneyDTO   `json:"total"`
}

func NewCart(c *domaincart.Cart) Cart {
	out := Cart{UserID: c.UserID, Count: c.Count(), Total: NewMoney(c.Total())}
	for _, line := range c.Lines {
		out.Lines = append(out.Lines, CartLine{
			ItemID:       string(line.ItemID),
			StartDate:    line.Range.Start.Format(dateLayout),
			EndDate:      line.Range.End.Format(dateLayout),
			DurationDays: line.DurationDays(),
			DailyRate:    NewMoney(line.DailyRate),
			LineTotal:    NewMoney(line.Total()),
			AddedAt:      line.AddedAt,
		})
	}
	return out
}
