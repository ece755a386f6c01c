package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrPhoneTaken = apperror.Conflict("This phone number is already registered.")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)
	FindByResetToken(ctx context.Context, digest string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type userRepository struct {
	db     database.Querier
	mapper *UserMapper
	log    *zap.Logger
}

func NewUserRepository(db database.Querier, mapper *UserMapper, log *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		mapper: mapper,
		log:    log.With(zap.String("repository", "user")),
	}
}

const userColumns = `
	id, name, phone, birthday_month, birthday_day, role, password,
	password_changed_at, password_reset_token, password_reset_expires,
	locations, active_address, active, created_at, updated_at`

// every default read excludes deactivated users
const activeUsers = `FROM users WHERE active = TRUE`

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	stored, err := ur.mapper.ToStored(ctx, user, true)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = ur.db.Exec(ctx, query, storedUserArgs(stored)...)
	if err != nil {
		return ur.writeError("create", stored.ID, err)
	}
	return nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	stored, err := ur.mapper.ToStored(ctx, user, false)
	if err != nil {
		return err
	}

	query := `
		UPDATE users SET
			name = $2, phone = $3, birthday_month = $4, birthday_day = $5, role = $6,
			password = $7, password_changed_at = $8, password_reset_token = $9,
			password_reset_expires = $10, locations = $11, active_address = $12,
			active = $13, updated_at = $14
		WHERE id = $1
	`

	args := storedUserArgs(stored)
	// created_at is immutable
	args = append(args[:13], stored.UpdatedAt)

	tag, err := ur.db.Exec(ctx, query, args...)
	if err != nil {
		return ur.writeError("update", stored.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("No user found with that ID.")
	}
	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` ` + activeUsers + ` AND id = $1`
	return ur.findOne(ctx, "find user by ID", query, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (ur *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` ` + activeUsers + ` AND id = $1 FOR UPDATE`
	return ur.findOne(ctx, "find user by ID for update", query, id)
}

// FindByPhone normalises and encrypts phone before comparing.
func (ur *userRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` ` + activeUsers + ` AND phone = $1`
	return ur.findOne(ctx, "find user by phone", query, string(ur.mapper.PhoneKey(phone)))
}

func (ur *userRepository) FindByResetToken(ctx context.Context, digest string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` ` + activeUsers + ` AND password_reset_token = $1`
	return ur.findOne(ctx, "find user by reset token", query, digest)
}

func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` ` + activeUsers + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := ur.db.Query(ctx, query, limit, offset)
	if err != nil {
		ur.log.Error("Failed to find all users", zap.Error(err))
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var stored StoredUser
		if err := rows.Scan(storedUserDest(&stored)...); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user, err := ur.mapper.FromStored(&stored)
		if err != nil {
			ur.log.Error("Failed to decode stored user", zap.Error(err), zap.String("user_id", stored.ID.String()))
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := ur.db.QueryRow(ctx, `SELECT COUNT(*) `+activeUsers).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// Deactivate soft-deletes the user and empties its location list. The
// location rows themselves are removed by the caller in the same
// transaction.
func (ur *userRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE users
		SET active = FALSE, locations = '{}', active_address = 0, updated_at = NOW()
		WHERE id = $1 AND active = TRUE
	`

	tag, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to deactivate user", zap.Error(err), zap.String("user_id", id.String()))
		return false, fmt.Errorf("deactivate user %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (ur *userRepository) findOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	var stored StoredUser
	err := ur.db.QueryRow(ctx, query, arg).Scan(storedUserDest(&stored)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := ur.mapper.FromStored(&stored)
	if err != nil {
		ur.log.Error("Failed to decode stored user", zap.Error(err), zap.String("user_id", stored.ID.String()))
		return nil, err
	}
	return user, nil
}

func (ur *userRepository) writeError(op string, id uuid.UUID, err error) error {
	if _, ok := database.UniqueViolation(err); ok {
		ur.log.Warn("Duplicate phone on user "+op, zap.String("user_id", id.String()))
		return ErrPhoneTaken
	}
	ur.log.Error("Failed to "+op+" user", zap.Error(err), zap.String("user_id", id.String()))
	return fmt.Errorf("%s user %s: %w", op, id, err)
}

func storedUserArgs(s *StoredUser) []any {
	return []any{
		s.ID,
		string(s.Name),
		string(s.Phone),
		s.BirthdayMonth,
		s.BirthdayDay,
		s.Role,
		s.PasswordHash,
		s.PasswordChangedAt,
		s.PasswordResetToken,
		s.PasswordResetExpires,
		s.Locations,
		s.ActiveAddress,
		s.Active,
		s.CreatedAt,
		s.UpdatedAt,
	}
}

func storedUserDest(s *StoredUser) []any {
	return []any{
		&s.ID,
		(*string)(&s.Name),
		(*string)(&s.Phone),
		&s.BirthdayMonth,
		&s.BirthdayDay,
		&s.Role,
		&s.PasswordHash,
		&s.PasswordChangedAt,
		&s.PasswordResetToken,
		&s.PasswordResetExpires,
		&s.Locations,
		&s.ActiveAddress,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
}
