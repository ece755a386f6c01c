package entity

import (
	"time"

	"github.com/google/uuid"
)

// Location is a delivery address owned by exactly one user.
type Location struct {
	Base
	UserID      uuid.UUID
	Point       Point
	Address     string
	Description *string
}

func NewLocation(now time.Time, userID uuid.UUID, point Point, address string, description *string) *Location {
	return &Location{
		Base:        NewBase(now),
		UserID:      userID,
		Point:       point,
		Address:     address,
		Description: description,
	}
}

// Snapshot freezes the location for embedding into an order.
func (l *Location) Snapshot() LocationSnapshot {
	snap := LocationSnapshot{
		LocationID:  l.ID,
		Coordinates: [2]float64{l.Point.Lng, l.Point.Lat},
		Address:     l.Address,
	}
	if l.Description != nil {
		d := *l.Description
		snap.Description = &d
	}
	return snap
}
