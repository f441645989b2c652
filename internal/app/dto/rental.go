package dto

import (
	"time"

	domainpricing "sharetools/internal/domain/pricing"
	domainrental "sharetools/internal/domain/rental"
)

// QuoteDTO is the price breakdown returned alongside a created order.
type QuoteDTO struct {
	DailyRate        MoneyDTO `json:"daily_rate"`
	DurationDays     int      `json:"duration_days"`
	TotalAmount      MoneyDTO `json:"total_amount"`
	ServiceFee       MoneyDTO `json:"service_fee"`
	SecurityDeposit  MoneyDTO `json:"security_deposit"`
	TotalWithDeposit MoneyDTO `json:"total_with_deposit"`
}

// RentalOrder is the public view of a persisted order.
type RentalOrder struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	RenterID      string    `json:"renter_id"`
	OwnerID       string    `json:"owner_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"`
	Quote         QuoteDTO  `json:"quote"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	PaymentDate   time.Time `json:"payment_date,omitempty"`
	RenterNotes   string    `json:"renter_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CompletedAt   time.Time `json:"completed_at,omitempty"`
}

// RentalCollection groups a user's orders by status.
type RentalCollection struct {
	Active    []RentalOrder `json:"active"`
	Completed []RentalOrder `json:"completed"`
	Cancelled []RentalOrder `json:"cancelled"`
	Total     int           `json:"total"`
}

// RentalSummary aggregates a renter's order statistics.
type RentalSummary struct {
	TotalOrders     int           `json:"total_orders"`
	ActiveOrders    int           `json:"active_orders"`
	CompletedOrders int           `json:"completed_orders"`
	CancelledOrders int           `json:"cancelled_orders"`
	TotalRevenue    MoneyDTO      `json:"total_revenue"`
	RecentOrders    []RentalOrder `json:"recent_orders"`
}

// RejectionDTO is the machine-readable reason a quote was not fulfilled.
type RejectionDTO struct {
	Reason       string   `json:"reason"`
	Message      string   `json:"message"`
	BlockedDates []string `json:"blocked_dates,omitempty"`
}

func NewQuote(q domainpricing.Quote) QuoteDTO {
	return QuoteDTO{
		DailyRate:        NewMoney(q.DailyRate),
		DurationDays:     q.DurationDays,
		TotalAmount:      NewMoney(q.TotalAmount),
		ServiceFee:       NewMoney(q.ServiceFee),
		SecurityDeposit:  NewMoney(q.SecurityDeposit),
		TotalWithDeposit: NewMoney(q.TotalWithDeposit),
	}
}

func NewRentalOrder(o *domainrental.Order) RentalOrder {
	return RentalOrder{
		ID:            string(o.ID),
		ItemID:        string(o.ItemID),
		RenterID:      o.RenterID,
		OwnerID:       o.OwnerID,
		StartDate:     o.Range.Start,
		EndDate:       o.Range.End,
		Status:        string(o.Status),
		Quote:         NewQuote(o.Quote),
		PaymentMethod: string(o.PaymentMethod),
		TransactionID: o.TransactionID,
		PaymentDate:   o.PaymentDate,
		RenterNotes:   o.RenterNotes,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
	}
}
