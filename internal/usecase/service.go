package usecase

import (
	"context"
	"time"

	"food-ordering/internal/data/repository"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

// PasswordVerifier compares a candidate password against a stored hash.
type PasswordVerifier interface {
	CheckPasswordHash(ctx context.Context, password, hash string) bool
}

type Service struct {
	Auth     AuthService
	User     UserService
	Location LocationService
	Food     FoodService
	Order    OrderService
}

func NewService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	passwords PasswordVerifier,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, tokens, passwords, config, log),
		User:     NewUserService(repo, log),
		Location: NewLocationService(repo, config.Geo, log),
		Food:     NewFoodService(repo.Food, log),
		Order:    NewOrderService(repo, log),
	}
}

type clock func() time.Time
