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
)

const (
	publishItemKey   = "items.publish"
	unpublishItemKey = "items.unpublish"
)

// ErrNotOwner is returned when a caller edits an item they do not own.
var ErrNotOwner = errors.New("items: only the owner may change an item")

// PublishItemCommand moves an item into the active catalog.
type PublishItemCommand struct {
	ItemID      string
	RequesterID string
}

func (c PublishItemCommand) Key() string { return publishItemKey }

func (c PublishItemCommand) Validate() error {
	if c.ItemID == "" || c.RequesterID == "" {
		return errors.New("items: item and requester are required")
	}
	return nil
}

// UnpublishItemCommand withdraws an item from the catalog.
type UnpublishItemCommand struct {
	ItemID      string
	RequesterID string
}

func (c UnpublishItemCommand) Key() string { return unpublishItemKey }

func (c UnpublishItemCommand) Validate() error {
	if c.ItemID == "" || c.RequesterID == "" {
		return errors.New("items: item and requester are required")
	}
	return nil
}

type PublishItemResult struct {
	Item dto.ItemDetail `json:"item"`
}

type PublishItemHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *PublishItemHandler) Handle(ctx context.Context, cmd PublishItemCommand) (*PublishItemResult, error) {
	item, err := h.mutate(ctx, cmd.ItemID, cmd.RequesterID, func(item *domainitems.Item, now time.Time) error {
		return item.Publish(now)
	})
	if err != nil {
		return nil, err
	}
	return &PublishItemResult{Item: dto.NewItemDetail(item)}, nil
}

type UnpublishItemHandler struct {
	*PublishItemHandler
}

func (h *UnpublishItemHandler) Handle(ctx context.Context, cmd UnpublishItemCommand) (*PublishItemResult, error) {
	item, err := h.mutate(ctx, cmd.ItemID, cmd.RequesterID, func(item *domainitems.Item, now time.Time) error {
		return item.Unpublish(now)
	})
	if err != nil {
		return nil, err
	}
	return &PublishItemResult{Item: dto.NewItemDetail(item)}, nil
}

func (h *PublishItemHandler) mutate(ctx context.Context, itemID, requesterID string, apply func(*domainitems.Item, time.Time) error) (*domainitems.Item, error) {
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

	item, err := unit.Items().ByID(ctx, domainitems.ItemID(itemID))
	if err != nil {
		return nil, err
	}
	if string(item.Owner) != requesterID {
		return nil, ErrNotOwner
	}
	if err := apply(item, h.now()); err != nil {
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
	return item, nil
}

func (h *PublishItemHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *PublishItemHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[PublishItemCommand, *PublishItemResult] = (*PublishItemHandler)(nil)
var _ commands.Handler[UnpublishItemCommand, *PublishItemResult] = (*UnpublishItemHandler)(nil)
