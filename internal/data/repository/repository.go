package repository

import (
	"context"

	"food-ordering/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Location LocationRepository
	Food     FoodRepository
	Order    OrderRepository
	Tx       Transactor
}

// Transactor runs fn against a Repository bound to a single transaction.
// fn returning an error rolls everything back.
type Transactor interface {
	Within(ctx context.Context, fn func(repo *Repository) error) error
}

func NewRepository(db database.PgxIface, mapper *UserMapper, log *zap.Logger) *Repository {
	repo := newRepository(db, mapper, log)
	repo.Tx = &pgxTransactor{db: db, mapper: mapper, log: log}
	return repo
}

func newRepository(q database.Querier, mapper *UserMapper, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(q, mapper, log),
		Location: NewLocationRepository(q, log),
		Food:     NewFoodRepository(q, log),
		Order:    NewOrderRepository(q, mapper, log),
	}
}

type pgxTransactor struct {
	db     database.PgxIface
	mapper *UserMapper
	log    *zap.Logger
}

func (t *pgxTransactor) Within(ctx context.Context, fn func(repo *Repository) error) error {
	return pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		repo := newRepository(tx, t.mapper, t.log)
		repo.Tx = nestedTransactor{repo: repo}
		return fn(repo)
	})
}

// nestedTransactor reuses the enclosing transaction.
type nestedTransactor struct {
	repo *Repository
}

func (n nestedTransactor) Within(_ context.Context, fn func(repo *Repository) error) error {
	return fn(n.repo)
}
