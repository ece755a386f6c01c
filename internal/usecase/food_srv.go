package usecase

import (
	"context"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/dto/request"
	"food-ordering/internal/dto/response"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

var errFoodNotFound = apperror.NotFound("No food found with that ID.")

type FoodService interface {
	GetAllFoods(ctx context.Context, req *request.FoodListRequest) (*response.PaginatedResponse[response.FoodResponse], error)
	GetFood(ctx context.Context, foodID string) (*response.FoodResponse, error)
	CreateFood(ctx context.Context, req *request.CreateFoodRequest) (*response.FoodResponse, error)
	UpdateFood(ctx context.Context, foodID string, req *request.UpdateFoodRequest) (*response.FoodResponse, error)
	DeleteFood(ctx context.Context, foodID string) error
}

type foodService struct {
	foodRepo repository.FoodRepository
	now      clock
	log      *zap.Logger
}

func NewFoodService(foodRepo repository.FoodRepository, log *zap.Logger) FoodService {
	return &foodService{
		foodRepo: foodRepo,
		now:      time.Now,
		log:      log.With(zap.String("service", "food")),
	}
}

// GetAllFoods lists available foods, optionally of one category.
func (fs *foodService) GetAllFoods(ctx context.Context, req *request.FoodListRequest) (*response.PaginatedResponse[response.FoodResponse], error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	var category *entity.FoodCategory
	if req.Category != "" {
		c := entity.FoodCategory(req.Category)
		category = &c
	}

	foods, err := fs.foodRepo.FindAvailable(ctx, category, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get all foods: %w", err)
	}
	total, err := fs.foodRepo.CountAvailable(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("count foods: %w", err)
	}

	return response.NewPaginatedResponse(response.FoodsToResponse(foods), req.Page, req.Limit(), total), nil
}

// GetFood hides finished foods.
func (fs *foodService) GetFood(ctx context.Context, foodID string) (*response.FoodResponse, error) {
	food, err := fs.find(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if food.IsFinished {
		return nil, errFoodNotFound
	}

	resp := response.FoodToResponse(food)
	return &resp, nil
}

func (fs *foodService) CreateFood(ctx context.Context, req *request.CreateFoodRequest) (*response.FoodResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	food := &entity.Food{
		Base:        entity.NewBase(fs.now()),
		Name:        req.Name,
		Category:    entity.FoodCategory(req.Category),
		Ingredients: req.Ingredients,
		Price:       *req.Price,
		IsFinished:  req.IsFinished,
	}

	if err := fs.foodRepo.Create(ctx, food); err != nil {
		return nil, err
	}

	fs.log.Info("Food created", zap.String("food_id", food.ID.String()), zap.String("name", food.Name))

	resp := response.FoodToResponse(food)
	return &resp, nil
}

// UpdateFood never touches existing orders, they hold their own snapshot.
func (fs *foodService) UpdateFood(ctx context.Context, foodID string, req *request.UpdateFoodRequest) (*response.FoodResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	food, err := fs.find(ctx, foodID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		food.Name = *req.Name
	}
	if req.Category != nil {
		food.Category = entity.FoodCategory(*req.Category)
	}
	if req.Ingredients != nil {
		food.Ingredients = req.Ingredients
	}
	if req.Price != nil {
		food.Price = *req.Price
	}
	if req.IsFinished != nil {
		food.IsFinished = *req.IsFinished
	}

	if err := fs.foodRepo.Update(ctx, food); err != nil {
		return nil, err
	}

	fs.log.Info("Food updated", zap.String("food_id", food.ID.String()))

	resp := response.FoodToResponse(food)
	return &resp, nil
}

func (fs *foodService) DeleteFood(ctx context.Context, foodID string) error {
	id, err := parseID(foodID, "food")
	if err != nil {
		return err
	}

	ok, err := fs.foodRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if !ok {
		return errFoodNotFound
	}

	fs.log.Info("Food deleted", zap.String("food_id", id.String()))
	return nil
}

func (fs *foodService) find(ctx context.Context, foodID string) (*entity.Food, error) {
	id, err := parseID(foodID, "food")
	if err != nil {
		return nil, err
	}

	food, err := fs.foodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find food: %w", err)
	}
	if food == nil {
		return nil, errFoodNotFound
	}
	return food, nil
}
