package entity

import (
	"crypto/subtle"
	"time"

	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

const MinPasswordLength = 8

var (
	ErrInvalidResetToken = apperror.Authentication("Reset token is invalid. Please request a new one.")
	ErrExpiredResetToken = apperror.Authentication("Reset token has expired. Please request a new one.")
)

type Birthday struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// User is the in-memory form of an account. Name and Phone always hold
// plaintext here; the repository converts them to ciphertext on write and
// back on read.
type User struct {
	Base
	Name                 string
	Phone                string
	Birthday             Birthday
	Role                 UserRole
	PasswordHash         string
	PasswordChangedAt    *time.Time
	PasswordResetToken   *string
	PasswordResetExpires *time.Time
	Locations            []uuid.UUID // ordered, 1-based ActiveAddress indexes into it
	ActiveAddress        int
	Active               bool

	// write-only, never persisted
	pendingPassword string
	passwordSet     bool
}

// NewUser returns an active user with the given role and no locations.
func NewUser(now time.Time, role UserRole) *User {
	if !role.Valid() {
		role = RoleUser
	}
	return &User{
		Base:   NewBase(now),
		Role:   role,
		Active: true,
	}
}

// SetPassword stages a new password. It is hashed when the user is saved.
func (u *User) SetPassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return apperror.Validation("A password must contain a minimum of 8 characters.")
	}
	if password != confirm {
		return apperror.Validation("Failed to confirm password.")
	}
	u.pendingPassword = password
	u.passwordSet = true
	return nil
}

// PendingPassword returns the staged plaintext password, if any.
func (u *User) PendingPassword() (string, bool) {
	return u.pendingPassword, u.passwordSet
}

// ApplyPasswordHash stores hash and drops the staged plaintext.
func (u *User) ApplyPasswordHash(hash string) {
	u.PasswordHash = hash
	u.pendingPassword = ""
	u.passwordSet = false
}

// PasswordChangedAfter reports whether the password was changed after a
// token issued at iat (epoch seconds).
func (u *User) PasswordChangedAfter(iat int64) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > iat
}

// IssueResetToken stores the digest of a new reset token valid for ttl and
// returns the plaintext token for out-of-band delivery.
func (u *User) IssueResetToken(now time.Time, ttl time.Duration) (string, error) {
	token, digest, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}
	expires := now.Add(ttl)
	u.PasswordResetToken = &digest
	u.PasswordResetExpires = &expires
	return token, nil
}

// ConsumeResetToken checks candidate against the stored digest and expiry
// and clears both on success.
func (u *User) ConsumeResetToken(candidate string, now time.Time) error {
	if u.PasswordResetToken == nil || u.PasswordResetExpires == nil {
		return ErrInvalidResetToken
	}
	digest := utils.HashResetToken(candidate)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(*u.PasswordResetToken)) != 1 {
		return ErrInvalidResetToken
	}
	if !now.Before(*u.PasswordResetExpires) {
		return ErrExpiredResetToken
	}
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
	return nil
}

// AddLocation appends id and makes it the active address.
func (u *User) AddLocation(id uuid.UUID) {
	u.Locations = append(u.Locations, id)
	u.ActiveAddress = len(u.Locations)
}

// RemoveLocation drops id from the list. The active address keeps pointing
// at the same location when another one was removed; when the active one is
// removed the most recently added location takes over.
func (u *User) RemoveLocation(id uuid.UUID) bool {
	idx := u.locationIndex(id)
	if idx < 0 {
		return false
	}

	u.Locations = append(u.Locations[:idx:idx], u.Locations[idx+1:]...)

	switch position := idx + 1; {
	case len(u.Locations) == 0:
		u.ActiveAddress = 0
	case position == u.ActiveAddress:
		u.ActiveAddress = len(u.Locations)
	case position < u.ActiveAddress:
		u.ActiveAddress--
	}
	return true
}

func (u *User) OwnsLocation(id uuid.UUID) bool {
	return u.locationIndex(id) >= 0
}

// ActiveLocationID returns locations[activeAddress-1].
func (u *User) ActiveLocationID() (uuid.UUID, bool) {
	if u.ActiveAddress < 1 || u.ActiveAddress > len(u.Locations) {
		return uuid.Nil, false
	}
	return u.Locations[u.ActiveAddress-1], true
}

// SetActiveAddress validates n against the current location list.
func (u *User) SetActiveAddress(n int) error {
	if n < 1 || n > len(u.Locations) {
		return apperror.Validation("Invalid address index.")
	}
	u.ActiveAddress = n
	return nil
}

func (u *User) locationIndex(id uuid.UUID) int {
	for i, l := range u.Locations {
		if l == id {
			return i
		}
	}
	return -1
}

// Validate checks month 1..12 and day 1..31.
func (b Birthday) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return apperror.Validation("Month should be a value between 1 and 12.")
	}
	if b.Day < 1 || b.Day > 31 {
		return apperror.Validation("Day should be a value between 1 and 31")
	}
	return nil
}
