package response

import (
	"time"

	"food-ordering/internal/data/entity"
)

type UserResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	Birthday          entity.Birthday `json:"birthday"`
	Role              entity.UserRole `json:"role"`
	Locations         []string        `json:"locations"`
	ActiveAddress     int             `json:"active_address"`
	PasswordChangedAt *time.Time      `json:"password_changed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// UserToResponse never exposes the password hash or reset state.
func UserToResponse(user *entity.User) UserResponse {
	locations := make([]string, len(user.Locations))
	for i, id := range user.Locations {
		locations[i] = id.String()
	}

	return UserResponse{
		ID:                user.ID.String(),
		Name:              user.Name,
		Phone:             user.Phone,
		Birthday:          user.Birthday,
		Role:              user.Role,
		Locations:         locations,
		ActiveAddress:     user.ActiveAddress,
		PasswordChangedAt: user.PasswordChangedAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = UserToResponse(u)
	}
	return out
}
