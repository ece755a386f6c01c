package adaptor

import (
	"net/http"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/dto/response"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/middleware"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	responder
	service usecase.AuthService
}

func NewAuthHandler(service usecase.AuthService, debug bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{log: log.With(zap.String("handler", "auth")), debug: debug},
		service:   service,
	}
}

// Signup handles POST /api/users/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "signup")
		return
	}

	utils.ResponseCreated(w, "Signup successful", resp)
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles GET /api/users/logout. Tokens are stateless, the client
// drops its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "Logout successful", response.LogoutResponse{Token: response.LogoutToken})
}

// ForgotPassword handles POST /api/users/forgotPassword
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "forgot password")
		return
	}

	utils.ResponseSuccess(w, "Reset token issued", resp)
}

// ResetPassword handles PATCH /api/users/resetPassword. The reset token
// travels as the bearer token.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.BearerToken(r)

	var req request.ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.ResetPassword(r.Context(), token, &req)
	if err != nil {
		h.handleServiceError(w, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password reset successful", resp)
}

// UpdateMyPassword handles PATCH /api/users/updateMyPassword
func (h *AuthHandler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateMyPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateMyPassword(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update password")
		return
	}

	utils.ResponseSuccess(w, "Password updated", resp)
}
