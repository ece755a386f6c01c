package request

import "encoding/json"

// UpdateMeRequest is a partial update. Password and Locations are only
// decoded so their presence can be rejected.
type UpdateMeRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone         *string          `json:"phone,omitempty" validate:"omitempty,numeric,min=7,max=15"`
	Birthday      *BirthdayRequest `json:"birthday,omitempty"`
	ActiveAddress *int             `json:"active_address,omitempty" validate:"omitempty,min=1"`

	Password  *string         `json:"password,omitempty"`
	Locations json.RawMessage `json:"locations,omitempty"`
}

type CreateUserRequest struct {
	SignupRequest
	Role string `json:"role" validate:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	UpdateMeRequest
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}
