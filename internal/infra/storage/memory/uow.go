package memory

import (
	"context"
	"errors"

	"sharetools/internal/app/uow"
	domaincart "sharetools/internal/domain/cart"
	domainitems "sharetools/internal/domain/items"
	domainrental "sharetools/internal/domain/rental"
	domainreviews "sharetools/internal/domain/reviews"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ItemsRepo   domainitems.Repository
	RentalsRepo domainrental.Repository
	ReviewsRepo domainreviews.Repository
	CartsRepo   domaincart.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// NewFactory assembles a factory over fresh empty stores.
func NewFactory() Factory {
	return Factory{
		ItemsRepo:   NewItemRepository(),
		RentalsRepo: NewRentalRepository(),
		ReviewsRepo: NewReviewRepository(),
		CartsRepo:   NewCartRepository(),
	}
}

// Begin starts a lightweight transaction boundary. No snapshot isolation is
// provided but the rental store enforces the overlap invariant at insert
// time, which is the check the booking flow relies on.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ItemsRepo == nil || f.RentalsRepo == nil || f.ReviewsRepo == nil || f.CartsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		items:   f.ItemsRepo,
		rentals: f.RentalsRepo,
		reviews: f.ReviewsRepo,
		carts:   f.CartsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	items   domainitems.Repository
	rentals domainrental.Repository
	reviews domainreviews.Repository
	carts   domaincart.Repository
}

func (u *Unit) Items() domainitems.Repository {
	return u.items
}

func (u *Unit) Rentals() domainrental.Repository {
	return u.rentals
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Carts() domaincart.Repository {
	return u.carts
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
