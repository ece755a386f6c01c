package adaptor

import (
	"net/http"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	responder
	service usecase.UserService
}

func NewUserHandler(service usecase.UserService, debug bool, log *zap.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{log: log.With(zap.String("handler", "user")), debug: debug},
		service:   service,
	}
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get me")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateMe handles PATCH /api/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateMeRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update me")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", user)
}

// DeleteMe handles DELETE /api/users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMe(r.Context(), userID); err != nil {
		h.handleServiceError(w, err, "delete me")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAllUsers handles GET /api/users (admin)
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context(), paginated(r))
	if err != nil {
		h.handleServiceError(w, err, "get users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// CreateUser handles POST /api/users (admin)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create user")
		return
	}

	utils.ResponseCreated(w, "User created", user)
}

// GetUser handles GET /api/users/{id} (admin)
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateUser handles PATCH /api/users/{id} (admin)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated", user)
}

// DeleteUser handles DELETE /api/users/{id} (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
