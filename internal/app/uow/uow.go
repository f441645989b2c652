package uow

import (
	"context"

	domaincart "sharetools/internal/domain/cart"
	domainitems "sharetools/internal/domain/items"
	domainrental "sharetools/internal/domain/rental"
	domainreviews "sharetools/internal/domain/reviews"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// availability check and the rental insert must observe the same boundary,
// otherwise two racing requests can both pass the check.
type UnitOfWork interface {
	Items() domainitems.Repository
	Rentals() domainrental.Repository
	Reviews() domainreviews.Repository
	Carts() domaincart.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
