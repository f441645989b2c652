package rental

import (
	"context"
	"errors"
	"strings"
	"time"

	"sharetools/internal/domain/items"
	"sharetools/internal/domain/pricing"
	"sharetools/internal/domain/shared/daterange"
	"sharetools/internal/domain/shared/events"
)

var (
	ErrInvalidState    = errors.New("rental: invalid state transition")
	ErrOrderNotFound   = errors.New("rental: order not found")
	ErrRenterRequired  = errors.New("rental: renter id required")
	ErrPaymentRequired = errors.New("rental: payment method required")
	ErrCancelCutoff    = errors.New("rental: orders can only be cancelled before the start date")
)

type OrderID string

type OrderStatus string

const (
	StatusRequested OrderStatus = "REQUESTED"
	StatusActive    OrderStatus = "ACTIVE"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// IsOccupying reports whether a status reserves the item's calendar.
// Completed and cancelled orders release their dates.
func (s OrderStatus) IsOccupying() bool {
	return s == StatusRequested || s == StatusActive
}

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentPaypal       PaymentMethod = "paypal"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentCreditCard:
		return PaymentCreditCard, true
	case PaymentDebitCard:
		return PaymentDebitCard, true
	case PaymentPaypal:
		return PaymentPaypal, true
	case PaymentBankTransfer:
		return PaymentBankTransfer, true
	}
	return "", false
}

// Order is a rental booking with its computed price snapshot. The quote
// fields are frozen at creation; tier changes never retroactively reprice
// an order.
type Order struct {
	ID            OrderID
	ItemID        items.ItemID
	RenterID      string
	OwnerID       string
	Range         daterange.DateRange
	Quote         pricing.Quote
	Status        OrderStatus
	PaymentMethod PaymentMethod
	PaymentDate   time.Time
	TransactionID string
	RenterNotes   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   time.Time
	Version       int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id OrderID) (*Order, error)
	Save(ctx context.Context, order *Order) error
	ListByRenter(ctx context.Context, renterID string) ([]*Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Order, error)
	// OccupyingByItem returns orders whose status still reserves the
	// item's calendar.
	OccupyingByItem(ctx context.Context, itemID items.ItemID) ([]*Order, error)
	// DueForCompletion returns active orders whose end date is before asOf.
	DueForCompletion(ctx context.Context, asOf time.Time) ([]*Order, error)
}

type CreateParams struct {
	ID          OrderID
	ItemID      items.ItemID
	RenterID    string
	OwnerID     string
	Range       daterange.DateRange
	Quote       pricing.Quote
	RenterNotes string
	CreatedAt   time.Time
}

func NewOrder(params CreateParams) (*Order, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("rental: order id required")
	}
	if strings.TrimSpace(params.RenterID) == "" {
		return nil, ErrRenterRequired
	}
	if params.RenterID == params.OwnerID {
		return nil, ErrSelfRentalForbidden
	}
	if err := params.Range.Validate(); err != nil {
		return nil, ErrInvalidDateRange
	}
	if !params.Quote.TotalAmount.IsPositive() {
		return nil, errors.New("rental: total amount must be positive")
	}
	now := params.CreatedAt.UTC()
	o := &Order{
		ID:          params.ID,
		ItemID:      params.ItemID,
		RenterID:    params.RenterID,
		OwnerID:     params.OwnerID,
		Range:       params.Range,
		Quote:       params.Quote,
		Status:      StatusRequested,
		RenterNotes: params.RenterNotes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	o.Record(OrderRequested{OrderID: o.ID, ItemID: o.ItemID, RenterID: o.RenterID, Range: o.Range, Total: o.Quote.TotalWithDeposit, At: now})
	return o, nil
}

// Activate records a successful payment and reserves the range. Only a
// freshly requested order can activate.
func (o *Order) Activate(method PaymentMethod, transactionID string, now time.Time) error {
	if o.Status != StatusRequested {
		return ErrInvalidState
	}
	if method == "" {
		return ErrPaymentRequired
	}
	o.Status = StatusActive
	o.PaymentMethod = method
	o.PaymentDate = now.UTC()
	o.TransactionID = transactionID
	o.UpdatedAt = now.UTC()
	o.Record(OrderActivated{OrderID: o.ID, ItemID: o.ItemID, TransactionID: transactionID, At: o.UpdatedAt})
	return nil
}

// Complete transitions a past-its-end-date order to its terminal state.
// Driven by the completion worker, not the request path.
func (o *Order) Complete(now time.Time) error {
	if o.Status != StatusActive {
		return ErrInvalidState
	}
	o.Status = StatusCompleted
	o.CompletedAt = now.UTC()
	o.UpdatedAt = now.UTC()
	o.Record(OrderCompleted{OrderID: o.ID, ItemID: o.ItemID, At: o.UpdatedAt})
	return nil
}

// CanBeCancelled allows cancellation only while active and strictly before
// the rental starts.
func (o *Order) CanBeCancelled(now time.Time) bool {
	return o.Status == StatusActive && daterange.Day(now).Before(o.Range.Start)
}

// Cancel releases the reserved dates before the rental begins.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.Status != StatusActive {
		return ErrInvalidState
	}
	if !daterange.Day(now).Before(o.Range.Start) {
		return ErrCancelCutoff
	}
	o.Status = StatusCancelled
	o.UpdatedAt = now.UTC()
	o.Record(OrderCancelled{OrderID: o.ID, ItemID: o.ItemID, Reason: reason, At: o.UpdatedAt})
	return nil
}

// IsRunning reports whether the order occupies the item today.
func (o *Order) IsRunning(now time.Time) bool {
	return o.Status == StatusActive && o.Range.ContainsDate(now)
}
