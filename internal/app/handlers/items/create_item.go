package items

import (
	"context"
	"errors"
	"time"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	"sharetools/internal/app/outbox"
	"sharetools/internal/app/uow"
	domainitems "sharetools/internal/domain/items"
	domainpricing "sharetools/internal/domain/pricing"
	"sharetools/internal/domain/shared/money"
)

const createItemKey = "items.create"

// TierInput is a duration/price pairing supplied on item creation.
type TierInput struct {
	DurationDays int
	PricePence   int64
}

// CreateItemCommand registers a new item in DRAFT status.
type CreateItemCommand struct {
	CommandID   string
	OwnerID     string
	Title       string
	Description string
	Category    string
	Condition   string
	ValuePence  int64
	City        string
	Tiers       []TierInput
}

func (c CreateItemCommand) Key() string { return createItemKey }

func (c CreateItemCommand) Validate() error {
	if c.CommandID == "" {
		return errors.New("items: command id is required")
	}
	if c.OwnerID == "" {
		return domainitems.ErrOwnerRequired
	}
	if c.Title == "" {
		return domainitems.ErrTitleRequired
	}
	if c.ValuePence <= 0 {
		return domainitems.ErrValueRequired
	}
	return nil
}

type CreateItemResult struct {
	Item dto.ItemDetail `json:"item"`
}

type CreateItemHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*CreateItemResult, error) {
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
	tiers := make([]domainpricing.PriceTier, 0, len(cmd.Tiers))
	for _, in := range cmd.Tiers {
		tiers = append(tiers, domainpricing.PriceTier{
			DurationDays: in.DurationDays,
			Price:        money.GBP(in.PricePence),
			Active:       true,
		})
	}

	item, err := domainitems.NewItem(domainitems.CreateParams{
		ID:          domainitems.ItemID(cmd.CommandID),
		Owner:       domainitems.OwnerID(cmd.OwnerID),
		Title:       cmd.Title,
		Description: cmd.Description,
		Category:    cmd.Category,
		Condition:   domainitems.Condition(cmd.Condition),
		Value:       money.GBP(cmd.ValuePence),
		City:        cmd.City,
		Tiers:       tiers,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Items().Save(ctx, item); err != nil {
		return nil, err
	}

	pending := item.PendingEvents()
	item.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CreateItemResult{Item: dto.NewItemDetail(item)}, nil
}

func (h *CreateItemHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CreateItemHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateItemCommand, *CreateItemResult] = (*CreateItemHandler)(nil)
