package entity

import (
	"time"

	"github.com/google/uuid"
)

type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewBase returns a Base with a fresh id and both timestamps set to now.
func NewBase(now time.Time) Base {
	return Base{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Point is a longitude/latitude pair.
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}
