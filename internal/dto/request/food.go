package request

type CreateFoodRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Category    string   `json:"category" validate:"required,oneof=pizza sandwich appetizer drinks"`
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	IsFinished  bool     `json:"is_finished"`
}

type UpdateFoodRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,oneof=pizza sandwich appetizer drinks"`
	Ingredients []string `json:"ingredients,omitempty" validate:"omitempty,min=1,dive,required"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsFinished  *bool    `json:"is_finished,omitempty"`
}

type FoodListRequest struct {
	PaginatedRequest
	Category string `json:"category" validate:"omitempty,oneof=pizza sandwich appetizer drinks"`
}
