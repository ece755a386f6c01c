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
	errUserNotFound       = apperror.NotFound("No user found with that ID.")
	errPasswordOnUpdateMe = apperror.Validation("Cannot use this route to update your password. Please use /updateMyPassword.")
	errPasswordOnUpdate   = apperror.Validation("Admins are not allowed to manipulate user passwords.")
	errLocationsOnUpdate  = apperror.Validation("Cannot use this route to edit locations.")
	errInvalidRole        = apperror.Validation("Role must be one of: user, admin.")
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req *request.UpdateMeRequest) (*response.UserResponse, error)
	DeleteMe(ctx context.Context, userID uuid.UUID) error

	GetAllUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetUser(ctx context.Context, userID string) (*response.UserResponse, error)
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	repo *repository.Repository
	now  clock
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	return us.getUser(ctx, userID)
}

func (us *userService) UpdateMe(ctx context.Context, userID uuid.UUID, req *request.UpdateMeRequest) (*response.UserResponse, error) {
	if req.Password != nil {
		return nil, errPasswordOnUpdateMe
	}
	return us.update(ctx, userID, req, nil)
}

func (us *userService) DeleteMe(ctx context.Context, userID uuid.UUID) error {
	return us.deactivate(ctx, userID)
}

func (us *userService) GetAllUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get all users: %w", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	return response.NewPaginatedResponse(response.UsersToResponse(users), req.Page, req.Limit(), total), nil
}

func (us *userService) GetUser(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	return us.getUser(ctx, id)
}

// CreateUser is the admin variant of signup and may assign any role.
func (us *userService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	user := entity.NewUser(us.now(), role)
	user.Name = req.Name
	user.Phone = req.Phone
	user.Birthday = entity.Birthday{Month: req.Birthday.Month, Day: req.Birthday.Day}
	if err := user.SetPassword(req.Password, req.PasswordConfirm); err != nil {
		return nil, err
	}

	if err := us.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	if req.Password != nil {
		return nil, errPasswordOnUpdate
	}

	var role *entity.UserRole
	if req.Role != nil {
		r := entity.UserRole(*req.Role)
		if !r.Valid() {
			return nil, errInvalidRole
		}
		role = &r
	}
	return us.update(ctx, id, &req.UpdateMeRequest, role)
}

func (us *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	return us.deactivate(ctx, id)
}

func (us *userService) getUser(ctx context.Context, id uuid.UUID) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// update applies a partial update under a row lock so activeAddress is
// checked against the location list it will be stored with.
func (us *userService) update(ctx context.Context, id uuid.UUID, req *request.UpdateMeRequest, role *entity.UserRole) (*response.UserResponse, error) {
	if len(req.Locations) > 0 {
		return nil, errLocationsOnUpdate
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	var updated *entity.User
	err := us.repo.Tx.Within(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return errUserNotFound
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Birthday != nil {
			birthday := entity.Birthday{Month: req.Birthday.Month, Day: req.Birthday.Day}
			if err := birthday.Validate(); err != nil {
				return err
			}
			user.Birthday = birthday
		}
		if req.ActiveAddress != nil {
			if err := user.SetActiveAddress(*req.ActiveAddress); err != nil {
				return err
			}
		}
		if role != nil {
			user.Role = *role
		}

		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	us.log.Info("User updated", zap.String("user_id", id.String()))

	resp := response.UserToResponse(updated)
	return &resp, nil
}

// deactivate soft-deletes the user and removes its locations atomically.
func (us *userService) deactivate(ctx context.Context, id uuid.UUID) error {
	err := us.repo.Tx.Within(ctx, func(tx *repository.Repository) error {
		ok, err := tx.User.Deactivate(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errUserNotFound
		}

		removed, err := tx.Location.DeleteByUser(ctx, id)
		if err != nil {
			return err
		}
		us.log.Info("User deactivated",
			zap.String("user_id", id.String()),
			zap.Int64("locations_removed", removed))
		return nil
	})
	return err
}
