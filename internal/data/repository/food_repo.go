package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrFoodNameTaken = apperror.Conflict("A food with this name already exists.")

type FoodRepository interface {
	Create(ctx context.Context, food *entity.Food) error
	Update(ctx context.Context, food *entity.Food) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Food, error)
	FindAvailable(ctx context.Context, category *entity.FoodCategory, limit, offset int) ([]*entity.Food, error)
	CountAvailable(ctx context.Context, category *entity.FoodCategory) (int64, error)
	FindAvailableByIDsForShare(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Food, error)
}

type foodRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewFoodRepository(db database.Querier, log *zap.Logger) FoodRepository {
	return &foodRepository{
		db:  db,
		log: log.With(zap.String("repository", "food")),
	}
}

const foodColumns = `id, name, category, ingredients, price, is_finished, created_at, updated_at`

func (r *foodRepository) Create(ctx context.Context, food *entity.Food) error {
	query := `
		INSERT INTO foods (` + foodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		food.ID,
		food.Name,
		string(food.Category),
		ingredientsOrEmpty(food.Ingredients),
		food.Price,
		food.IsFinished,
		food.CreatedAt,
		food.UpdatedAt,
	)
	if err != nil {
		return r.writeError("create", food, err)
	}
	return nil
}

func (r *foodRepository) Update(ctx context.Context, food *entity.Food) error {
	food.UpdatedAt = time.Now()

	query := `
		UPDATE foods
		SET name = $2, category = $3, ingredients = $4, price = $5, is_finished = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		food.ID,
		food.Name,
		string(food.Category),
		ingredientsOrEmpty(food.Ingredients),
		food.Price,
		food.IsFinished,
		food.UpdatedAt,
	)
	if err != nil {
		return r.writeError("update", food, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("No food found with that ID.")
	}
	return nil
}

func (r *foodRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete food", zap.Error(err), zap.String("food_id", id.String()))
		return false, fmt.Errorf("delete food %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByID ignores availability; callers hide finished foods themselves.
func (r *foodRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = $1`

	food, err := scanFood(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find food by ID", zap.Error(err), zap.String("food_id", id.String()))
		return nil, fmt.Errorf("find food by ID %s: %w", id, err)
	}
	return food, nil
}

func (r *foodRepository) FindAvailable(ctx context.Context, category *entity.FoodCategory, limit, offset int) ([]*entity.Food, error) {
	query := `
		SELECT ` + foodColumns + `
		FROM foods
		WHERE is_finished = FALSE AND ($1::text IS NULL OR category = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, categoryArg(category), limit, offset)
	if err != nil {
		r.log.Error("Failed to find foods", zap.Error(err))
		return nil, fmt.Errorf("find foods: %w", err)
	}
	defer rows.Close()

	foods := []*entity.Food{}
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, food)
	}
	return foods, rows.Err()
}

func (r *foodRepository) CountAvailable(ctx context.Context, category *entity.FoodCategory) (int64, error) {
	query := `SELECT COUNT(*) FROM foods WHERE is_finished = FALSE AND ($1::text IS NULL OR category = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, categoryArg(category)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count foods: %w", err)
	}
	return count, nil
}

// FindAvailableByIDsForShare resolves ids to available foods and holds a
// share lock on them until the transaction ends, so a price or availability
// change cannot slip in between snapshot and insert.
func (r *foodRepository) FindAvailableByIDsForShare(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Food, error) {
	foods := make(map[uuid.UUID]*entity.Food, len(ids))
	if len(ids) == 0 {
		return foods, nil
	}

	query := `
		SELECT ` + foodColumns + `
		FROM foods
		WHERE id = ANY($1) AND is_finished = FALSE
		FOR SHARE
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to resolve foods", zap.Error(err))
		return nil, fmt.Errorf("resolve foods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods[food.ID] = food
	}
	return foods, rows.Err()
}

func (r *foodRepository) writeError(op string, food *entity.Food, err error) error {
	if _, ok := database.UniqueViolation(err); ok {
		r.log.Warn("Duplicate food name on "+op, zap.String("name", food.Name))
		return ErrFoodNameTaken
	}
	r.log.Error("Failed to "+op+" food", zap.Error(err), zap.String("food_id", food.ID.String()))
	return fmt.Errorf("%s food %s: %w", op, food.ID, err)
}

func scanFood(row pgx.Row) (*entity.Food, error) {
	var (
		f        entity.Food
		category string
	)
	err := row.Scan(
		&f.ID,
		&f.Name,
		&category,
		&f.Ingredients,
		&f.Price,
		&f.IsFinished,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Category = entity.FoodCategory(category)
	return &f, nil
}

func categoryArg(category *entity.FoodCategory) *string {
	if category == nil {
		return nil
	}
	c := string(*category)
	return &c
}

func ingredientsOrEmpty(ingredients []string) []string {
	if ingredients == nil {
		return []string{}
	}
	return ingredients
}
