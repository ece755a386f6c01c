package response

import "time"

type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user,omitempty"`
}

// ForgotPasswordResponse carries the reset token only in debug mode.
type ForgotPasswordResponse struct {
	ResetToken string    `json:"reset_token,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// LogoutResponse mirrors the client contract: the token to keep is a
// placeholder that will fail verification.
type LogoutResponse struct {
	Token string `json:"token"`
}

const LogoutToken = "<logout-token>"
