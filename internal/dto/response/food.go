package response

import (
	"time"

	"food-ordering/internal/data/entity"
)

type FoodResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    entity.FoodCategory `json:"category"`
	Ingredients []string            `json:"ingredients"`
	Price       float64             `json:"price"`
	IsFinished  bool                `json:"is_finished"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func FoodToResponse(f *entity.Food) FoodResponse {
	ingredients := f.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return FoodResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		Category:    f.Category,
		Ingredients: ingredients,
		Price:       f.Price,
		IsFinished:  f.IsFinished,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func FoodsToResponse(foods []*entity.Food) []FoodResponse {
	out := make([]FoodResponse, len(foods))
	for i, f := range foods {
		out[i] = FoodToResponse(f)
	}
	return out
}
