package adaptor

import (
	"net/http"
	"strconv"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	responder
	service usecase.OrderService
}

func NewOrderHandler(service usecase.OrderService, debug bool, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		responder: responder{log: log.With(zap.String("handler", "order")), debug: debug},
		service:   service,
	}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create order")
		return
	}

	utils.ResponseCreated(w, "Order created", order)
}

// GetMyOrders handles GET /api/orders/mine
func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	orders, err := h.service.GetMyOrders(r.Context(), userID, paginated(r))
	if err != nil {
		h.handleServiceError(w, err, "get my orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// ReviewOrder handles PATCH /api/orders/{id}
func (h *OrderHandler) ReviewOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req request.ReviewOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.service.ReviewOrder(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "review order")
		return
	}

	utils.ResponseSuccess(w, "Review saved", order)
}

// GetAllOrders handles GET /api/orders (admin)
func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAllOrders(r.Context(), paginated(r))
	if err != nil {
		h.handleServiceError(w, err, "get orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// RatingStats handles GET /api/orders/ratingAverage[/{year}/{month}] (admin)
func (h *OrderHandler) RatingStats(w http.ResponseWriter, r *http.Request) {
	period, err := monthPeriod(r)
	if err != nil {
		h.handleServiceError(w, err, "rating stats")
		return
	}

	stats, err := h.service.RatingStats(r.Context(), period)
	if err != nil {
		h.handleServiceError(w, err, "rating stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// TopOrders handles GET /api/orders/top/{n}[/{year}/{month}] (admin)
func (h *OrderHandler) TopOrders(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		h.handleServiceError(w, apperror.Validation("n must be a whole number."), "top orders")
		return
	}

	period, err := monthPeriod(r)
	if err != nil {
		h.handleServiceError(w, err, "top orders")
		return
	}

	orders, err := h.service.TopOrders(r.Context(), n, period)
	if err != nil {
		h.handleServiceError(w, err, "top orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}
