package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sharetools/internal/app/uow"
	domaincart "sharetools/internal/domain/cart"
	domainitems "sharetools/internal/domain/items"
	domainrental "sharetools/internal/domain/rental"
	domainreviews "sharetools/internal/domain/reviews"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ItemsRepo   domainitems.Repository
	RentalsRepo domainrental.Repository
	ReviewsRepo domainreviews.Repository
	CartsRepo   domaincart.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// NewFactory assembles the repositories over one database handle.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:          db,
		ItemsRepo:   NewItemRepository(db),
		RentalsRepo: NewRentalRepository(db),
		ReviewsRepo: NewReviewRepository(db),
		CartsRepo:   NewCartRepository(db),
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:      f.DB,
		session: session,
		items:   f.ItemsRepo,
		rentals: f.RentalsRepo,
		reviews: f.ReviewsRepo,
		carts:   f.CartsRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	if err := u.session.CommitTransaction(ctx); err != nil {
		return err
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
