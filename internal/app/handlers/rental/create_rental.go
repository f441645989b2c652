package rental

import (
	"context"
	"errors"
	"time"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	"sharetools/internal/app/middleware"
	"sharetools/internal/app/outbox"
	"sharetools/internal/app/policies"
	"sharetools/internal/app/uow"
	domainavailability "sharetools/internal/domain/availability"
	domainitems "sharetools/internal/domain/items"
	domainpricing "sharetools/internal/domain/pricing"
	domainrental "sharetools/internal/domain/rental"
	domainrange "sharetools/internal/domain/shared/daterange"
)

const createRentalKey = "rental.create"

// CreateRentalCommand runs the whole quote-and-validate pipeline: date
// validation, item gate, owner exclusion, conflict check, rate resolution,
// total calculation, payment and persistence, all inside one unit of work.
type CreateRentalCommand struct {
	CommandID       string
	ItemID          string
	RenterID        string
	StartDate       time.Time
	EndDate         time.Time
	PaymentMethod   string
	RenterNotes     string
	IdempotencyKeyV string
}

func (c CreateRentalCommand) Key() string { return createRentalKey }

func (c CreateRentalCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateRentalCommand) ResultPrototype() any { return &CreateRentalResult{} }

func (c CreateRentalCommand) Validate() error {
	if c.ItemID == "" || c.RenterID == "" {
		return errors.New("rental: item and renter are required")
	}
	if _, ok := domainrental.ParsePaymentMethod(c.PaymentMethod); !ok {
		return domainrental.ErrPaymentRequired
	}
	return nil
}

type CreateRentalResult struct {
	Order dto.RentalOrder `json:"order"`
}

type CreateRentalHandler struct {
	UoWFactory uow.UoWFactory
	Payments   policies.PaymentProcessor
	Pricing    domainpricing.Config
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

var ErrPaymentsUnavailable = errors.New("rental: payment processor not configured")

func (h *CreateRentalHandler) Handle(ctx context.Context, cmd CreateRentalCommand) (*CreateRentalResult, error) {
	if h.Payments == nil {
		return nil, ErrPaymentsUnavailable
	}
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := h.now()
	dr, err := domainrange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, domainrental.Reject(domainrental.ErrInvalidDateRange)
	}
	if err := domainrental.ValidateRequestRange(dr, now); err != nil {
		return nil, domainrental.Reject(err)
	}

	item, err := unit.Items().ByID(ctx, domainitems.ItemID(cmd.ItemID))
	if err != nil {
		return nil, err
	}
	if !item.IsRentable() {
		return nil, domainrental.Reject(domainrental.ErrItemUnavailable)
	}
	if string(item.Owner) == cmd.RenterID {
		return nil, domainrental.Reject(domainrental.ErrSelfRentalForbidden)
	}
	if !domainpricing.HasActiveTiers(item.Tiers) {
		return nil, domainrental.Reject(domainrental.ErrNoPricingData)
	}

	occupying, err := unit.Rentals().OccupyingByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	calendar := domainavailability.NewCalendar(item.ID, occupiedRanges(occupying))
	if !calendar.CanReserve(dr) {
		return nil, domainrental.Reject(domainrental.ErrDateConflict, blockedDates(calendar, dr)...)
	}

	rate := domainpricing.ResolveDailyRate(item.Tiers, dr.Days(), h.Pricing)
	quote, err := domainpricing.CalculateQuote(rate, dr.Days(), item.Value, h.Pricing)
	if err != nil {
		return nil, err
	}

	method, _ := domainrental.ParsePaymentMethod(cmd.PaymentMethod)
	order, err := domainrental.NewOrder(domainrental.CreateParams{
		ID:          domainrental.OrderID(cmd.CommandID),
		ItemID:      item.ID,
		RenterID:    cmd.RenterID,
		OwnerID:     string(item.Owner),
		Range:       dr,
		Quote:       quote,
		RenterNotes: cmd.RenterNotes,
		CreatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, domainrental.ErrSelfRentalForbidden) {
			return nil, domainrental.Reject(err)
		}
		return nil, err
	}

	charge, err := h.Payments.Charge(ctx, string(order.ID), cmd.PaymentMethod, quote.TotalWithDeposit)
	if err != nil {
		return nil, err
	}
	if !charge.Approved {
		// Nothing was persisted; the caller may retry with a fresh quote.
		return nil, domainrental.Reject(domainrental.ErrPaymentDeclined)
	}
	if err := order.Activate(method, charge.TransactionID, now); err != nil {
		return nil, err
	}

	// The repository re-checks the overlap invariant at insert time, so a
	// concurrent request that slipped past the read above still loses here.
	if err := unit.Rentals().Save(ctx, order); err != nil {
		if errors.Is(err, domainrental.ErrDateConflict) {
			return nil, domainrental.Reject(domainrental.ErrDateConflict, blockedDates(calendar, dr)...)
		}
		return nil, err
	}

	item.RecordBooking(now)
	if err := unit.Items().Save(ctx, item); err != nil {
		return nil, err
	}

	pending := order.PendingEvents()
	order.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateRentalResult{Order: dto.NewRentalOrder(order)}, nil
}

func (h *CreateRentalHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CreateRentalHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func occupiedRanges(orders []*domainrental.Order) []domainrange.DateRange {
	out := make([]domainrange.DateRange, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Range)
	}
	return out
}

func blockedDates(calendar *domainavailability.Calendar, requested domainrange.DateRange) []time.Time {
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, conflict := range calendar.Conflicts(requested) {
		for _, day := range conflict.EachDay() {
			if _, ok := seen[day]; ok {
				continue
			}
			seen[day] = struct{}{}
			out = append(out, day)
		}
	}
	return out
}

var _ commands.Handler[CreateRentalCommand, *CreateRentalResult] = (*CreateRentalHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateRentalCommand)(nil)
