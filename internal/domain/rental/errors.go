package rental

import (
	"errors"
	"fmt"
	"time"
)

// ReasonCode is the machine-readable rejection reason surfaced to callers
// when a quote cannot be fulfilled. All rejections are recoverable at the
// request boundary.
type ReasonCode string

const (
	ReasonItemUnavailable ReasonCode = "item_unavailable"
	ReasonSelfRental      ReasonCode = "self_rental_forbidden"
	ReasonInvalidDates    ReasonCode = "invalid_date_range"
	ReasonDateConflict    ReasonCode = "date_conflict"
	ReasonPaymentDeclined ReasonCode = "payment_declined"
	ReasonNoPricingData   ReasonCode = "no_pricing_data"
)

var (
	ErrItemUnavailable     = errors.New("rental: item is not available for rent")
	ErrSelfRentalForbidden = errors.New("rental: requester owns this item")
	ErrInvalidDateRange    = errors.New("rental: invalid date range")
	ErrStartDateInPast     = errors.New("rental: start date is in the past")
	ErrDateConflict        = errors.New("rental: requested dates overlap an existing booking")
	ErrPaymentDeclined     = errors.New("rental: payment was declined")
	ErrNoPricingData       = errors.New("rental: item has no active price tiers")
)

// Rejection wraps a domain error with its reason code and, for date
// conflicts, the dates blocking the request.
type Rejection struct {
	Reason       ReasonCode
	Err          error
	BlockedDates []time.Time
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %v", r.Reason, r.Err)
}

func (r *Rejection) Unwrap() error { return r.Err }

// Reject builds a rejection for the given sentinel error.
func Reject(err error, blocked ...time.Time) *Rejection {
	return &Rejection{Reason: reasonFor(err), Err: err, BlockedDates: blocked}
}

// AsRejection extracts a Rejection from an error chain if present.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

func reasonFor(err error) ReasonCode {
	switch {
	case errors.Is(err, ErrItemUnavailable):
		return ReasonItemUnavailable
	case errors.Is(err, ErrSelfRentalForbidden):
		return ReasonSelfRental
	case errors.Is(err, ErrInvalidDateRange), errors.Is(err, ErrStartDateInPast):
		return ReasonInvalidDates
	case errors.Is(err, ErrDateConflict):
		return ReasonDateConflict
	case errors.Is(err, ErrPaymentDeclined):
		return ReasonPaymentDeclined
	case errors.Is(err, ErrNoPricingData):
		return ReasonNoPricingData
	}
	return ReasonCode("internal")
}
