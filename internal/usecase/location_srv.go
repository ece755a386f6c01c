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
	errLocationNotOwned = apperror.Authorization("This location ID is not yours. You cannot edit it.")
	errLocationNotFound = apperror.NotFound("No location found with that ID.")
	errBadCoordinates   = apperror.Validation("Coordinates must be [lng, lat] with lng in [-180, 180] and lat in [-90, 90].")
	errBadDistance      = apperror.Validation("Distance must be a positive number of kilometers.")
)

type LocationService interface {
	GetMyLocations(ctx context.Context, userID uuid.UUID) ([]response.LocationResponse, error)
	AddLocation(ctx context.Context, userID uuid.UUID, req *request.CreateLocationRequest) (*response.LocationResponse, error)
	UpdateLocation(ctx context.Context, userID uuid.UUID, locationID string, req *request.UpdateLocationRequest) (*response.LocationResponse, error)
	DeleteLocation(ctx context.Context, userID uuid.UUID, locationID string) error
	GetLocationsWithin(ctx context.Context, distanceKm float64) ([]response.LocationResponse, error)
}

type locationService struct {
	repo *repository.Repository
	base entity.Point
	now  clock
	log  *zap.Logger
}

func NewLocationService(repo *repository.Repository, geo utils.GeoConfig, log *zap.Logger) LocationService {
	return &locationService{
		repo: repo,
		base: entity.Point{Lng: geo.BaseLng, Lat: geo.BaseLat},
		now:  time.Now,
		log:  log.With(zap.String("service", "location")),
	}
}

// GetMyLocations keeps the order of the user's location list.
func (s *locationService) GetMyLocations(ctx context.Context, userID uuid.UUID) ([]response.LocationResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get my locations: %w", err)
	}
	if user == nil {
		return nil, errUserGone
	}

	locations, err := s.repo.Location.FindByIDs(ctx, user.Locations)
	if err != nil {
		return nil, fmt.Errorf("get my locations: %w", err)
	}
	return response.LocationsToResponse(locations), nil
}

// AddLocation stores the location and makes it the user's active address.
func (s *locationService) AddLocation(ctx context.Context, userID uuid.UUID, req *request.CreateLocationRequest) (*response.LocationResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	point, err := toPoint(req.Coordinates)
	if err != nil {
		return nil, err
	}

	var location *entity.Location
	err = s.repo.Tx.Within(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return errUserGone
		}

		location = entity.NewLocation(s.now(), user.ID, point, req.Address, req.Description)
		if err := tx.Location.Create(ctx, location); err != nil {
			return err
		}

		user.AddLocation(location.ID)
		return tx.User.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Location added",
		zap.String("user_id", userID.String()),
		zap.String("location_id", location.ID.String()))

	resp := response.LocationToResponse(location)
	return &resp, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, userID uuid.UUID, locationID string, req *request.UpdateLocationRequest) (*response.LocationResponse, error) {
	id, err := parseID(locationID, "location")
	if err != nil {
		return nil, err
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	if user == nil {
		return nil, errUserGone
	}
	if !user.OwnsLocation(id) {
		return nil, errLocationNotOwned
	}

	location, err := s.repo.Location.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	if location == nil || location.UserID != user.ID {
		return nil, errLocationNotFound
	}

	if req.Coordinates != nil {
		point, err := toPoint(req.Coordinates)
		if err != nil {
			return nil, err
		}
		location.Point = point
	}
	if req.Address != nil {
		location.Address = *req.Address
	}
	if req.Description != nil {
		location.Description = req.Description
	}

	if err := s.repo.Location.Update(ctx, location); err != nil {
		return nil, err
	}

	resp := response.LocationToResponse(location)
	return &resp, nil
}

// DeleteLocation removes the location and recomputes the active address in
// one transaction.
func (s *locationService) DeleteLocation(ctx context.Context, userID uuid.UUID, locationID string) error {
	id, err := parseID(locationID, "location")
	if err != nil {
		return err
	}

	err = s.repo.Tx.Within(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return errUserGone
		}
		if !user.RemoveLocation(id) {
			return errLocationNotOwned
		}

		if _, err := tx.Location.Delete(ctx, id); err != nil {
			return err
		}
		return tx.User.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	s.log.Info("Location removed",
		zap.String("user_id", userID.String()),
		zap.String("location_id", id.String()))
	return nil
}

func (s *locationService) GetLocationsWithin(ctx context.Context, distanceKm float64) ([]response.LocationResponse, error) {
	if distanceKm <= 0 {
		return nil, errBadDistance
	}

	locations, err := s.repo.Location.FindWithin(ctx, s.base, distanceKm)
	if err != nil {
		return nil, fmt.Errorf("get locations within %.2fkm: %w", distanceKm, err)
	}
	return response.LocationsToResponse(locations), nil
}

func toPoint(coordinates []float64) (entity.Point, error) {
	if len(coordinates) != 2 {
		return entity.Point{}, errBadCoordinates
	}
	lng, lat := coordinates[0], coordinates[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return entity.Point{}, errBadCoordinates
	}
	return entity.Point{Lng: lng, Lat: lat}, nil
}
