package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/crypto"

	"github.com/google/uuid"
)

// StoredUser is a users row. Name and Phone only ever hold ciphertext.
type StoredUser struct {
	ID                   uuid.UUID
	Name                 crypto.Ciphertext
	Phone                crypto.Ciphertext
	BirthdayMonth        int
	BirthdayDay          int
	Role                 string
	PasswordHash         string
	PasswordChangedAt    *time.Time
	PasswordResetToken   *string
	PasswordResetExpires *time.Time
	Locations            []uuid.UUID
	ActiveAddress        int
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Hasher is the password primitive used by the write pipeline.
type Hasher interface {
	HashPassword(ctx context.Context, password string) (string, error)
}

type userWrite struct {
	user   *entity.User
	isNew  bool
	stored *StoredUser

	// set by hash-password when an existing record got a new password
	passwordChanged bool
}

type writeStage struct {
	name string
	run  func(ctx context.Context, m *UserMapper, w *userWrite) error
}

type readStage struct {
	name string
	run  func(m *UserMapper, s *StoredUser, u *entity.User) error
}

// Write stages run in this order before every insert or update.
var userWriteStages = []writeStage{
	{"normalize-phone", normalizePhoneStage},
	{"hash-password", hashPasswordStage},
	{"stamp-password-changed", stampPasswordChangedStage},
	{"encrypt-pii", encryptPIIStage},
}

// Read stages run once per loaded row.
var userReadStages = []readStage{
	{"decrypt-pii", decryptPIIStage},
}

// UserMapper converts between the plaintext entity and the stored row.
type UserMapper struct {
	codec  *crypto.Codec
	hasher Hasher
	now    func() time.Time
}

func NewUserMapper(codec *crypto.Codec, hasher Hasher) *UserMapper {
	return &UserMapper{codec: codec, hasher: hasher, now: time.Now}
}

// ToStored runs the write pipeline. It updates u in place (normalised
// phone, password hash, passwordChangedAt) and returns the row to persist.
func (m *UserMapper) ToStored(ctx context.Context, u *entity.User, isNew bool) (*StoredUser, error) {
	w := &userWrite{
		user:  u,
		isNew: isNew,
		stored: &StoredUser{
			ID:                   u.ID,
			BirthdayMonth:        u.Birthday.Month,
			BirthdayDay:          u.Birthday.Day,
			Role:                 string(u.Role),
			PasswordResetToken:   u.PasswordResetToken,
			PasswordResetExpires: u.PasswordResetExpires,
			Locations:            append([]uuid.UUID{}, u.Locations...),
			ActiveAddress:        u.ActiveAddress,
			Active:               u.Active,
			CreatedAt:            u.CreatedAt,
			UpdatedAt:            u.UpdatedAt,
		},
	}

	for _, stage := range userWriteStages {
		if err := stage.run(ctx, m, w); err != nil {
			return nil, fmt.Errorf("user write stage %s: %w", stage.name, err)
		}
	}

	// fields the stages may have changed
	w.stored.PasswordHash = u.PasswordHash
	w.stored.PasswordChangedAt = u.PasswordChangedAt
	return w.stored, nil
}

// FromStored runs the read pipeline on a fresh entity. The stored row is
// left untouched, so loading the same row twice yields the same plaintext.
func (m *UserMapper) FromStored(s *StoredUser) (*entity.User, error) {
	u := &entity.User{
		Base: entity.Base{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		Birthday:             entity.Birthday{Month: s.BirthdayMonth, Day: s.BirthdayDay},
		Role:                 entity.UserRole(s.Role),
		PasswordHash:         s.PasswordHash,
		PasswordChangedAt:    s.PasswordChangedAt,
		PasswordResetToken:   s.PasswordResetToken,
		PasswordResetExpires: s.PasswordResetExpires,
		Locations:            append([]uuid.UUID{}, s.Locations...),
		ActiveAddress:        s.ActiveAddress,
		Active:               s.Active,
	}

	for _, stage := range userReadStages {
		if err := stage.run(m, s, u); err != nil {
			return nil, fmt.Errorf("user read stage %s: %w", stage.name, err)
		}
	}
	return u, nil
}

// PhoneKey returns the stored form of phone for equality lookups.
func (m *UserMapper) PhoneKey(phone string) crypto.Ciphertext {
	return m.codec.Encrypt(NormalizePhone(phone))
}

// DecryptContact opens the name and phone columns joined into other reads.
func (m *UserMapper) DecryptContact(name, phone crypto.Ciphertext) (string, string, error) {
	plainName, err := m.codec.Decrypt(name)
	if err != nil {
		return "", "", apperror.Decode("stored user name is not decodable", err)
	}
	plainPhone, err := m.codec.Decrypt(phone)
	if err != nil {
		return "", "", apperror.Decode("stored user phone is not decodable", err)
	}
	return plainName, plainPhone, nil
}

// NormalizePhone prefixes a leading 0 when missing.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "0") {
		return phone
	}
	return "0" + phone
}

func normalizePhoneStage(_ context.Context, _ *UserMapper, w *userWrite) error {
	w.user.Phone = NormalizePhone(w.user.Phone)
	return nil
}

func hashPasswordStage(ctx context.Context, m *UserMapper, w *userWrite) error {
	password, ok := w.user.PendingPassword()
	if !ok {
		if w.isNew && w.user.PasswordHash == "" {
			return apperror.Validation("A user must have a password.")
		}
		return nil
	}

	hash, err := m.hasher.HashPassword(ctx, password)
	if err != nil {
		return err
	}
	w.user.ApplyPasswordHash(hash)

	w.passwordChanged = !w.isNew
	return nil
}

func stampPasswordChangedStage(_ context.Context, m *UserMapper, w *userWrite) error {
	if w.passwordChanged {
		now := m.now()
		w.user.PasswordChangedAt = &now
	}
	return nil
}

func encryptPIIStage(_ context.Context, m *UserMapper, w *userWrite) error {
	w.stored.Name = m.codec.Encrypt(w.user.Name)
	w.stored.Phone = m.codec.Encrypt(w.user.Phone)
	return nil
}

func decryptPIIStage(m *UserMapper, s *StoredUser, u *entity.User) error {
	name, phone, err := m.DecryptContact(s.Name, s.Phone)
	if err != nil {
		return err
	}
	u.Name = name
	u.Phone = phone
	return nil
}
