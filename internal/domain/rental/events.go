package rental

import (
	"time"

	"sharetools/internal/domain/items"
	"sharetools/internal/domain/shared/daterange"
	"sharetools/internal/domain/shared/money"
)

type OrderRequested struct {
	OrderID  OrderID
	ItemID   items.ItemID
	RenterID string
	Range    daterange.DateRange
	Total    money.Money
	At       time.Time
}

func (e OrderRequested) EventName() string     { return "rental.order.requested" }
func (e OrderRequested) AggregateID() string   { return string(e.OrderID) }
func (e OrderRequested) OccurredAt() time.Time { return e.At }

type OrderActivated struct {
	OrderID       OrderID
	ItemID        items.ItemID
	TransactionID string
	At            time.Time
}

func (e OrderActivated) EventName() string     { return "rental.order.activated" }
func (e OrderActivated) AggregateID() string   { return string(e.OrderID) }
func (e OrderActivated) OccurredAt() time.Time { return e.At }

type OrderCompleted struct {
	OrderID OrderID
	ItemID  items.ItemID
	At      time.Time
}

func (e OrderCompleted) EventName() string     { return "rental.order.completed" }
func (e OrderCompleted) AggregateID() string   { return string(e.OrderID) }
func (e OrderCompleted) OccurredAt() time.Time { return e.At }

type OrderCancelled struct {
	OrderID OrderID
	ItemID  items.ItemID
	Reason  string
	At      time.Time
}

func (e OrderCancelled) EventName() string     { return "rental.order.cancelled" }
func (e OrderCancelled) AggregateID() string   { return string(e.OrderID) }
func (e OrderCancelled) OccurredAt() time.Time { return e.At }
