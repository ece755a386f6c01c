package response

import (
	"time"

	"food-ordering/internal/data/entity"
)

type LocationResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func LocationToResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID.String(),
		UserID:      l.UserID.String(),
		Type:        "Point",
		Coordinates: [2]float64{l.Point.Lng, l.Point.Lat},
		Address:     l.Address,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func LocationsToResponse(locations []*entity.Location) []LocationResponse {
	out := make([]LocationResponse, len(locations))
	for i, l := range locations {
		out[i] = LocationToResponse(l)
	}
	return out
}
