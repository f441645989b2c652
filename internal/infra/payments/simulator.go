// Package payments provides the simulated card processor used in place of
// a real gateway. Charges succeed at a configurable rate and mint
// transaction references of the form TXN_XXXXXXXX.
package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"

	"sharetools/internal/app/policies"
	"sharetools/internal/domain/shared/money"
)

const txnPrefix = "TXN_"

// Simulator approves a configurable fraction of charges. Declines are an
// expected outcome, not an error; the error return is reserved for
// processor failures, which the simulator never produces.
type Simulator struct {
	logger      *slog.Logger
	successRate float64

	mu   sync.Mutex
	rand *mathrand.Rand
}

// Option customizes the simulator.
type Option func(*Simulator)

// WithRand injects a deterministic source, used by tests.
func WithRand(r *mathrand.Rand) Option {
	return func(s *Simulator) { s.rand = r }
}

// NewSimulator builds a processor approving successRate of charges,
// clamped to [0,1].
func NewSimulator(logger *slog.Logger, successRate float64, opts ...Option) *Simulator {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	s := &Simulator{logger: logger, successRate: successRate}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Charge(ctx context.Context, orderID, method string, amount money.Money) (policies.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return policies.ChargeResult{}, err
	}
	if s.roll() >= s.successRate {
		if s.logger != nil {
			s.logger.InfoContext(ctx, "charge declined", "order_id", orderID, "method", method, "amount", amount.String())
		}
		return policies.ChargeResult{Approved: false}, nil
	}
	txnID, err := newTransactionID()
	if err != nil {
		return policies.ChargeResult{}, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "charge approved", "order_id", orderID, "transaction_id", txnID, "amount", amount.String())
	}
	return policies.ChargeResult{Approved: true, TransactionID: txnID}, nil
}

func (s *Simulator) Refund(ctx context.Context, orderID, transactionID string, amount money.Money) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "refund issued", "order_id", orderID, "transaction_id", transactionID, "amount", amount.String())
	}
	return nil
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rand != nil {
		return s.rand.Float64()
	}
	return mathrand.Float64()
}

func newTransactionID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("payments: transaction id: %w", err)
	}
	return txnPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}

var _ policies.PaymentProcessor = (*Simulator)(nil)
