package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EarthRadiusKm is the sphere radius used by radius queries.
const EarthRadiusKm = 6378.1

type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	Update(ctx context.Context, location *entity.Location) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Location, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Location, error)
	FindWithin(ctx context.Context, center entity.Point, distanceKm float64) ([]*entity.Location, error)
}

type locationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewLocationRepository(db database.Querier, log *zap.Logger) LocationRepository {
	return &locationRepository{
		db:  db,
		log: log.With(zap.String("repository", "location")),
	}
}

const locationColumns = `id, user_id, lng, lat, address, description, created_at, updated_at`

func (r *locationRepository) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		location.ID,
		location.UserID,
		location.Point.Lng,
		location.Point.Lat,
		location.Address,
		location.Description,
		location.CreatedAt,
		location.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create location", zap.Error(err), zap.String("user_id", location.UserID.String()))
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *locationRepository) Update(ctx context.Context, location *entity.Location) error {
	location.UpdatedAt = time.Now()

	query := `
		UPDATE locations
		SET lng = $2, lat = $3, address = $4, description = $5, updated_at = $6
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query,
		location.ID,
		location.Point.Lng,
		location.Point.Lat,
		location.Address,
		location.Description,
		location.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update location", zap.Error(err), zap.String("location_id", location.ID.String()))
		return fmt.Errorf("update location %s: %w", location.ID, err)
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete location", zap.Error(err), zap.String("location_id", id.String()))
		return false, fmt.Errorf("delete location %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *locationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE user_id = $1`, userID)
	if err != nil {
		r.log.Error("Failed to delete user locations", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("delete locations of user %s: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}

func (r *locationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	location, err := scanLocation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find location by ID", zap.Error(err), zap.String("location_id", id.String()))
		return nil, fmt.Errorf("find location by ID %s: %w", id, err)
	}
	return location, nil
}

// FindByIDs returns the locations in the order of ids. Unknown ids are
// skipped.
func (r *locationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Location, error) {
	if len(ids) == 0 {
		return []*entity.Location{}, nil
	}

	query := `
		SELECT ` + prefixed("l", locationColumns) + `
		FROM unnest($1::uuid[]) WITH ORDINALITY AS wanted(id, pos)
		JOIN locations l ON l.id = wanted.id
		ORDER BY wanted.pos
	`
	return r.queryLocations(ctx, "find locations by IDs", query, ids)
}

// FindWithin returns every location whose great-circle distance from
// center is at most distanceKm.
func (r *locationRepository) FindWithin(ctx context.Context, center entity.Point, distanceKm float64) ([]*entity.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE 2 * $4::float8 * asin(sqrt(
			power(sin(radians(lat - $2::float8) / 2), 2) +
			cos(radians($2::float8)) * cos(radians(lat)) *
			power(sin(radians(lng - $1::float8) / 2), 2)
		)) <= $3::float8
		ORDER BY created_at
	`
	return r.queryLocations(ctx, "find locations within radius", query, center.Lng, center.Lat, distanceKm, EarthRadiusKm)
}

func (r *locationRepository) queryLocations(ctx context.Context, op, query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	locations := []*entity.Location{}
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return locations, nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Point.Lng,
		&l.Point.Lat,
		&l.Address,
		&l.Description,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
