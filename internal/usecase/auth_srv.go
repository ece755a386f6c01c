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

var (
	errWrongCredentials = apperror.Authentication("Wrong phone number or password. Please try again.")
	errWrongPassword    = apperror.Authentication("Your current password is not correct.")
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, resetToken string, req *request.ResetPasswordRequest) (*response.AuthResponse, error)
	UpdateMyPassword(ctx context.Context, userID uuid.UUID, req *request.UpdateMyPasswordRequest) (*response.AuthResponse, error)
}

type authService struct {
	repo      *repository.Repository
	tokens    *utils.TokenManager
	passwords PasswordVerifier
	config    *utils.Config
	now       clock
	log       *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	passwords PasswordVerifier,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		passwords: passwords,
		config:    config,
		now:       time.Now,
		log:       log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error) {
	// 1. Validasi input
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Build user
	user := entity.NewUser(s.now(), entity.RoleUser)
	user.Name = req.Name
	user.Phone = req.Phone
	user.Birthday = entity.Birthday{Month: req.Birthday.Month, Day: req.Birthday.Day}
	if err := user.SetPassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	// 3. Save, phone uniqueness is enforced by storage
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User signed up", zap.String("user_id", user.ID.String()))

	return s.issueToken(user, true)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, apperror.Validation("Please provide phone number and password.")
	}

	user, err := s.repo.User.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	// same answer for unknown phone and wrong password
	if user == nil || !s.passwords.CheckPasswordHash(ctx, req.Password, user.PasswordHash) {
		s.log.Warn("Failed login attempt")
		return nil, errWrongCredentials
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return s.issueToken(user, false)
}

// ForgotPassword stores a fresh reset token digest. The plaintext token is
// only echoed and logged in debug mode, standing in for SMS delivery.
func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.ForgotPasswordResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("forgot password: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("There is no user with that phone number.")
	}

	token, err := user.IssueResetToken(s.now(), s.config.Password.ResetTokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := &response.ForgotPasswordResponse{ExpiresAt: *user.PasswordResetExpires}
	if s.config.App.Debug {
		s.log.Debug("Password reset token issued",
			zap.String("user_id", user.ID.String()),
			zap.String("reset_token", token))
		resp.ResetToken = token
	}

	s.log.Info("Password reset requested", zap.String("user_id", user.ID.String()))
	return resp, nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken string, req *request.ResetPasswordRequest) (*response.AuthResponse, error) {
	if resetToken == "" {
		return nil, entity.ErrInvalidResetToken
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByResetToken(ctx, utils.HashResetToken(resetToken))
	if err != nil {
		return nil, fmt.Errorf("reset password: %w", err)
	}
	if user == nil {
		s.log.Warn("Unknown or consumed reset token")
		return nil, entity.ErrInvalidResetToken
	}

	if err := user.ConsumeResetToken(resetToken, s.now()); err != nil {
		s.log.Warn("Reset token rejected", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}
	if err := user.SetPassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return s.issueToken(user, false)
}

func (s *authService) UpdateMyPassword(ctx context.Context, userID uuid.UUID, req *request.UpdateMyPasswordRequest) (*response.AuthResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	if user == nil {
		return nil, errUserGone
	}

	if !s.passwords.CheckPasswordHash(ctx, req.CurrentPassword, user.PasswordHash) {
		s.log.Warn("Wrong current password", zap.String("user_id", user.ID.String()))
		return nil, errWrongPassword
	}
	if err := user.SetPassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("Password updated", zap.String("user_id", user.ID.String()))
	return s.issueToken(user, false)
}

func (s *authService) issueToken(user *entity.User, withUser bool) (*response.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Sign(user.ID.String())
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, err
	}

	resp := &response.AuthResponse{Token: token, ExpiresAt: expiresAt}
	if withUser {
		u := response.UserToResponse(user)
		resp.User = &u
	}
	return resp, nil
}
