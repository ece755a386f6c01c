package adaptor

import (
	"net/http"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FoodHandler struct {
	responder
	service usecase.FoodService
}

func NewFoodHandler(service usecase.FoodService, debug bool, log *zap.Logger) *FoodHandler {
	return &FoodHandler{
		responder: responder{log: log.With(zap.String("handler", "food")), debug: debug},
		service:   service,
	}
}

// GetFoods handles GET /api/foods?page=&per_page=&category=
func (h *FoodHandler) GetFoods(w http.ResponseWriter, r *http.Request) {
	req := &request.FoodListRequest{
		PaginatedRequest: paginated(r),
		Category:         r.URL.Query().Get("category"),
	}

	foods, err := h.service.GetAllFoods(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get foods")
		return
	}

	utils.ResponseSuccess(w, "success", foods)
}

// GetFood handles GET /api/foods/{id}
func (h *FoodHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	food, err := h.service.GetFood(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get food")
		return
	}

	utils.ResponseSuccess(w, "success", food)
}

// CreateFood handles POST /api/foods (admin)
func (h *FoodHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFoodRequest
	if !h.decode(w, r, &req) {
		return
	}

	food, err := h.service.CreateFood(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create food")
		return
	}

	utils.ResponseCreated(w, "Food created", food)
}

// UpdateFood handles PATCH /api/foods/{id} (admin)
func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateFoodRequest
	if !h.decode(w, r, &req) {
		return
	}

	food, err := h.service.UpdateFood(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update food")
		return
	}

	utils.ResponseSuccess(w, "Food updated", food)
}

// DeleteFood handles DELETE /api/foods/{id} (admin)
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFood(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete food")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
