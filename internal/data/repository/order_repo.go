package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/crypto"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	UpdateReview(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Order, error)
	CountAll(ctx context.Context) (int64, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	RatingStats(ctx context.Context, period *entity.DateRange) (*entity.RatingStats, error)
	TopByCost(ctx context.Context, n int, period *entity.DateRange) ([]*entity.Order, error)
}

type orderRepository struct {
	db     database.Querier
	mapper *UserMapper
	log    *zap.Logger
}

func NewOrderRepository(db database.Querier, mapper *UserMapper, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		mapper: mapper,
		log:    log.With(zap.String("repository", "order")),
	}
}

// owner name and phone come along as ciphertext and are opened on scan
const orderSelect = `
	SELECT o.id, o.date, o.items, o.user_id, o.location, o.cost, o.review,
	       o.rating, o.reviewed_at, o.created_at, o.updated_at, u.name, u.phone
	FROM orders o
	JOIN users u ON u.id = o.user_id
`

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, date, items, user_id, location, cost, review,
		                    rating, reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		order.ID,
		order.Date,
		order.Items,
		order.UserID,
		order.Location,
		order.Cost,
		order.Review,
		order.Rating,
		order.ReviewedAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create order", zap.Error(err), zap.String("user_id", order.UserID.String()))
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// UpdateReview writes review and rating only when the order has not been
// reviewed yet. The snapshot columns are never rewritten.
func (r *orderRepository) UpdateReview(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders
		SET review = $2, rating = $3, reviewed_at = $4, updated_at = $5
		WHERE id = $1 AND reviewed_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, order.ID, order.Review, order.Rating, order.ReviewedAt, order.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to review order", zap.Error(err), zap.String("order_id", order.ID.String()))
		return fmt.Errorf("review order %s: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrAlreadyReviewed
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := r.scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID", zap.Error(err), zap.String("order_id", id.String()))
		return nil, fmt.Errorf("find order by ID %s: %w", id, err)
	}
	return order, nil
}

func (r *orderRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	query := orderSelect + ` ORDER BY o.date DESC LIMIT $1 OFFSET $2`
	return r.queryOrders(ctx, "find all orders", query, limit, offset)
}

func (r *orderRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	query := orderSelect + ` WHERE o.user_id = $1 ORDER BY o.date DESC LIMIT $2 OFFSET $3`
	return r.queryOrders(ctx, "find orders by user", query, userID, limit, offset)
}

func (r *orderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders of user %s: %w", userID, err)
	}
	return count, nil
}

// RatingStats aggregates every order, or only those dated inside period.
func (r *orderRepository) RatingStats(ctx context.Context, period *entity.DateRange) (*entity.RatingStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8,
		       COALESCE(MIN(rating), 0)::int, COALESCE(MAX(rating), 0)::int
		FROM orders
		WHERE ($1::timestamptz IS NULL OR date >= $1) AND ($2::timestamptz IS NULL OR date < $2)
	`

	from, to := periodArgs(period)

	var stats entity.RatingStats
	err := r.db.QueryRow(ctx, query, from, to).Scan(
		&stats.AllOrders,
		&stats.RatingAverage,
		&stats.MinRate,
		&stats.MaxRate,
	)
	if err != nil {
		r.log.Error("Failed to aggregate ratings", zap.Error(err))
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	return &stats, nil
}

// TopByCost returns the n most expensive orders, most expensive first.
func (r *orderRepository) TopByCost(ctx context.Context, n int, period *entity.DateRange) ([]*entity.Order, error) {
	query := orderSelect + `
		WHERE ($1::timestamptz IS NULL OR o.date >= $1) AND ($2::timestamptz IS NULL OR o.date < $2)
		ORDER BY o.cost DESC, o.date DESC
		LIMIT $3
	`

	from, to := periodArgs(period)
	return r.queryOrders(ctx, "find top orders", query, from, to, n)
}

func (r *orderRepository) queryOrders(ctx context.Context, op, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			r.log.Error("Failed to scan order", zap.Error(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (r *orderRepository) scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o           entity.Order
		name, phone string
	)
	err := row.Scan(
		&o.ID,
		&o.Date,
		&o.Items,
		&o.UserID,
		&o.Location,
		&o.Cost,
		&o.Review,
		&o.Rating,
		&o.ReviewedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
		&name,
		&phone,
	)
	if err != nil {
		return nil, err
	}

	plainName, plainPhone, err := r.mapper.DecryptContact(crypto.Ciphertext(name), crypto.Ciphertext(phone))
	if err != nil {
		return nil, err
	}
	o.User = &entity.OrderUser{ID: o.UserID, Name: plainName, Phone: plainPhone}
	return &o, nil
}

func periodArgs(period *entity.DateRange) (from, to *time.Time) {
	if period == nil {
		return nil, nil
	}
	return &period.From, &period.To
}
