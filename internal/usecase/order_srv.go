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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxTopOrders = 100

var errOrderNotFound = apperror.NotFound("No order found with that ID.")

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error)
	GetMyOrders(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	ReviewOrder(ctx context.Context, userID uuid.UUID, orderID string, req *request.ReviewOrderRequest) (*response.OrderResponse, error)
	GetAllOrders(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	RatingStats(ctx context.Context, period *entity.DateRange) (*entity.RatingStats, error)
	TopOrders(ctx context.Context, n int, period *entity.DateRange) ([]response.TopOrderResponse, error)
}

type orderService struct {
	repo *repository.Repository
	now  clock
	log  *zap.Logger
}

func NewOrderService(repo *repository.Repository, log *zap.Logger) OrderService {
	return &orderService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "order")),
	}
}

// CreateOrder snapshots foods and the active location into a new order.
// Everything runs in one transaction: the user row is locked so its
// location list cannot change underneath, the foods are share-locked so
// their prices cannot, and nothing is written unless the snapshot is
// complete.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	lines, err := toOrderLines(req.Items)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = s.repo.Tx.Within(ctx, func(tx *repository.Repository) error {
		// 1. Owner with at least one location
		user, err := tx.User.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return errUserGone
		}
		activeID, ok := user.ActiveLocationID()
		if !ok {
			return entity.ErrNoLocationRegistered
		}

		// 2. Resolve foods
		foods, err := resolveFoods(ctx, tx.Food, lines)
		if err != nil {
			return err
		}

		// 3. Resolve the active location
		location, err := tx.Location.FindByID(ctx, activeID)
		if err != nil {
			return err
		}
		if location == nil {
			return entity.ErrNoLocationRegistered
		}

		// 4. Freeze, cost
		order, err = entity.NewOrder(s.now(), user.ID, lines, foods, location)
		if err != nil {
			return err
		}

		// 5. Persist
		if err := tx.Order.Create(ctx, order); err != nil {
			return err
		}
		order.User = &entity.OrderUser{ID: user.ID, Name: user.Name, Phone: user.Phone}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("items", len(order.Items)),
		zap.Float64("cost", order.Cost))

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetMyOrders(ctx context.Context, userID uuid.UUID, req request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get my orders: %w", err)
	}
	total, err := s.repo.Order.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count my orders: %w", err)
	}

	return response.NewPaginatedResponse(response.OrdersToResponse(orders), req.Page, req.Limit(), total), nil
}

// ReviewOrder attaches review and rating once, for the owner only. Missing
// fields keep their placeholder value.
func (s *orderService) ReviewOrder(ctx context.Context, userID uuid.UUID, orderID string, req *request.ReviewOrderRequest) (*response.OrderResponse, error) {
	id, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("review order: %w", err)
	}
	if order == nil {
		return nil, errOrderNotFound
	}

	review, rating := order.Review, order.Rating
	if req.Review != nil {
		review = *req.Review
	}
	if req.Rating != nil {
		rating = *req.Rating
	}

	if err := order.AddReview(userID, review, rating, s.now()); err != nil {
		s.log.Warn("Review rejected",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}
	if err := s.repo.Order.UpdateReview(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("Order reviewed", zap.String("order_id", order.ID.String()), zap.Int("rating", order.Rating))

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetAllOrders(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get all orders: %w", err)
	}
	total, err := s.repo.Order.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	return response.NewPaginatedResponse(response.OrdersToResponse(orders), req.Page, req.Limit(), total), nil
}

// RatingStats covers every order when period is nil.
func (s *orderService) RatingStats(ctx context.Context, period *entity.DateRange) (*entity.RatingStats, error) {
	stats, err := s.repo.Order.RatingStats(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}
	return stats, nil
}

func (s *orderService) TopOrders(ctx context.Context, n int, period *entity.DateRange) ([]response.TopOrderResponse, error) {
	if n < 1 || n > MaxTopOrders {
		return nil, apperror.Validation(fmt.Sprintf("n must be between 1 and %d.", MaxTopOrders))
	}

	orders, err := s.repo.Order.TopByCost(ctx, n, period)
	if err != nil {
		return nil, fmt.Errorf("top orders: %w", err)
	}
	return response.TopOrdersToResponse(orders), nil
}

func toOrderLines(items []request.OrderItemRequest) ([]entity.OrderLine, error) {
	lines := make([]entity.OrderLine, len(items))
	for i, item := range items {
		id, err := parseID(item.Food, "food")
		if err != nil {
			return nil, err
		}
		lines[i] = entity.OrderLine{FoodID: id, Amount: item.Amount}
	}
	return lines, nil
}

// resolveFoods returns one available food per line, in line order.
func resolveFoods(ctx context.Context, foods repository.FoodRepository, lines []entity.OrderLine) ([]*entity.Food, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.FoodID] {
			seen[line.FoodID] = true
			ids = append(ids, line.FoodID)
		}
	}

	found, err := foods.FindAvailableByIDsForShare(ctx, ids)
	if err != nil {
		return nil, err
	}

	resolved := make([]*entity.Food, len(lines))
	for i, line := range lines {
		food, ok := found[line.FoodID]
		if !ok {
			return nil, apperror.Validation(fmt.Sprintf("No food found with ID %s.", line.FoodID))
		}
		resolved[i] = food
	}
	return resolved, nil
}
