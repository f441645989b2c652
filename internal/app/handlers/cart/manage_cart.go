package cart

import (
	"context"
	"errors"
	"time"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/dto"
	"sharetools/internal/app/handlers/support"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domaincart "sharetools/internal/domain/cart"
	domainitems "sharetools/internal/domain/items"
	domainpricing "sharetools/internal/domain/pricing"
	domainrental "sharetools/internal/domain/rental"
	domainrange "sharetools/internal/domain/shared/daterange"
)

const (
	addToCartKey      = "cart.add"
	removeFromCartKey = "cart.remove"
	getCartKey        = "cart.get"
)

// AddToCartCommand parks a prospective rental. The daily rate is resolved
// from the item's live tiers exactly as the booking flow would.
type AddToCartCommand struct {
	UserID    string
	ItemID    string
	StartDate time.Time
	EndDate   time.Time
}

func (c AddToCartCommand) Key() string { return addToCartKey }

func (c AddToCartCommand) Validate() error {
	if c.UserID == "" || c.ItemID == "" {
		return errors.New("cart: user and item are required")
	}
	return nil
}

type RemoveFromCartCommand struct {
	UserID string
	ItemID string
}

func (c RemoveFromCartCommand) Key() string { return removeFromCartKey }

func (c RemoveFromCartCommand) Validate() error {
	if c.UserID == "" || c.ItemID == "" {
		return errors.New("cart: user and item are required")
	}
	return nil
}

type GetCartQuery struct {
	UserID string
}

func (q GetCartQuery) Key() string { return getCartKey }

type CartResult struct {
	Cart dto.Cart `json:"cart"`
}

type AddToCartHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    domainpricing.Config
	Now        func() time.Time
}

func (h *AddToCartHandler) Handle(ctx context.Context, cmd AddToCartCommand) (*CartResult, error) {
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
	if string(item.Owner) == cmd.UserID {
		return nil, domainrental.Reject(domainrental.ErrSelfRentalForbidden)
	}

	rate := domainpricing.ResolveDailyRate(item.Tiers, dr.Days(), h.Pricing)

	userCart, err := unit.Carts().ByUser(ctx, cmd.UserID)
	if err != nil {
		if !errors.Is(err, domaincart.ErrNotFound) {
			return nil, err
		}
		userCart, err = domaincart.New(cmd.UserID)
		if err != nil {
			return nil, err
		}
	}
	userCart.Put(domaincart.Line{
		ItemID:    item.ID,
		Range:     dr,
		DailyRate: rate,
		AddedAt:   now,
	}, now)

	if err := unit.Carts().Save(ctx, userCart); err != nil {
		return nil, err
	}
	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CartResult{Cart: dto.NewCart(userCart)}, nil
}

func (h *AddToCartHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

type RemoveFromCartHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *RemoveFromCartHandler) Handle(ctx context.Context, cmd RemoveFromCartCommand) (*CartResult, error) {
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

	userCart, err := unit.Carts().ByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	if err := userCart.Remove(domainitems.ItemID(cmd.ItemID), now); err != nil {
		return nil, err
	}
	if err := unit.Carts().Save(ctx, userCart); err != nil {
		return nil, err
	}
	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CartResult{Cart: dto.NewCart(userCart)}, nil
}

type GetCartHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    domainpricing.Config
}

// Handle refreshes every line's rate against the item's current tiers so
// the cart never shows a price the booking flow would not honor.
func (h *GetCartHandler) Handle(ctx context.Context, q GetCartQuery) (dto.Cart, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Cart{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	userCart, err := unit.Carts().ByUser(ctx, q.UserID)
	if err != nil {
		if errors.Is(err, domaincart.ErrNotFound) {
			empty, newErr := domaincart.New(q.UserID)
			if newErr != nil {
				return dto.Cart{}, newErr
			}
			return dto.NewCart(empty), nil
		}
		return dto.Cart{}, err
	}

	for i, line := range userCart.Lines {
		item, err := unit.Items().ByID(ctx, line.ItemID)
		if err != nil {
			continue
		}
		userCart.Lines[i].DailyRate = domainpricing.ResolveDailyRate(item.Tiers, line.DurationDays(), h.Pricing)
	}
	return dto.NewCart(userCart), nil
}

var _ commands.Handler[AddToCartCommand, *CartResult] = (*AddToCartHandler)(nil)
var _ commands.Handler[RemoveFromCartCommand, *CartResult] = (*RemoveFromCartHandler)(nil)
var _ queries.Handler[GetCartQuery, dto.Cart] = (*GetCartHandler)(nil)
