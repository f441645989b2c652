package policies

import (
	"context"

	"sharetools/internal/domain/shared/money"
)

// ChargeResult carries the gateway's answer for a charge attempt.
type ChargeResult struct {
	Approved      bool
	TransactionID string
}

// PaymentProcessor abstracts the payment gateway so the booking
// orchestration never depends on a concrete integration. The bundled
// implementation simulates the gateway; a real one can be substituted
// without touching the rental handlers.
type PaymentProcessor interface {
	Charge(ctx context.Context, orderID string, method string, amount money.Money) (ChargeResult, error)
	Refund(ctx context.Context, orderID string, transactionID string, amount money.Money) error
}
