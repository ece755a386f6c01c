package request

type BirthdayRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Day   int `json:"day" validate:"required,min=1,max=31"`
}

type SignupRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	Phone           string          `json:"phone" validate:"required,numeric,min=7,max=15"`
	Birthday        BirthdayRequest `json:"birthday" validate:"required"`
	Password        string          `json:"password" validate:"required,min=8"`
	PasswordConfirm string          `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type UpdateMyPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}
