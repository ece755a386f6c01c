package adaptor

import (
	"food-ordering/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Location *LocationHandler
	Food     *FoodHandler
	Order    *OrderHandler
}

// NewHandler builds every handler. debug controls whether unexpected errors
// are echoed to clients.
func NewHandler(service *usecase.Service, debug bool, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, debug, log),
		User:     NewUserHandler(service.User, debug, log),
		Location: NewLocationHandler(service.Location, debug, log),
		Food:     NewFoodHandler(service.Food, debug, log),
		Order:    NewOrderHandler(service.Order, debug, log),
	}
}
