package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingToken  = apperror.Authentication("You are not logged in! Please log in to get access.")
	ErrInvalidToken  = apperror.Authentication("Invalid token. Please log in again.")
	ErrExpiredToken  = apperror.Authentication("Your token has expired. Please log in again.")
	ErrUserGone      = apperror.Authentication("The user belonging to this token does no longer exist.")
	ErrStaleToken    = apperror.Authentication("User recently changed password. Please log in again.")
	ErrRoleForbidden = apperror.Authorization("You do not have permission to perform this action.")
)

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// Protect verifies the bearer JWT, loads the user it names and rejects
// tokens issued before the user's last password change.
func Protect(tokens *utils.TokenManager, users repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Token ada?
			token, ok := BearerToken(r)
			if !ok {
				utils.ResponseError(w, ErrMissingToken, false)
				return
			}

			// 2. Verify signature + expiry
			claims, err := tokens.Parse(token)
			if err != nil {
				logger.Warn("Token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				if errors.Is(err, utils.ErrTokenExpired) {
					utils.ResponseError(w, ErrExpiredToken, false)
					return
				}
				utils.ResponseError(w, ErrInvalidToken, false)
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				utils.ResponseError(w, ErrInvalidToken, false)
				return
			}

			// 3. User masih ada?
			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Protect: failed to load user",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Some unexpected error happened.")
				return
			}
			if user == nil {
				logger.Warn("Token for missing user", zap.String("user_id", userID.String()))
				utils.ResponseError(w, ErrUserGone, false)
				return
			}

			// 4. Password changed after token issued?
			if user.PasswordChangedAfter(claims.IssuedAtUnix()) {
				logger.Warn("Stale token", zap.String("user_id", userID.String()))
				utils.ResponseError(w, ErrStaleToken, false)
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize lets the request through only when the role stored by Protect
// is one of roles.
func Authorize(logger *zap.Logger, roles ...entity.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseError(w, ErrMissingToken, false)
				return
			}

			if !slices.Contains(roles, entity.UserRole(role)) {
				userID, _ := utils.GetUserIDFromContext(r.Context())
				logger.Warn("Role denied",
					zap.String("user_id", userID.String()),
					zap.String("role", role),
					zap.String("path", r.URL.Path))
				utils.ResponseError(w, ErrRoleForbidden, false)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
