package request

// Coordinates are [lng, lat].
type CreateLocationRequest struct {
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address" validate:"required,min=1,max=300"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateLocationRequest struct {
	Coordinates []float64 `json:"coordinates,omitempty" validate:"omitempty,len=2"`
	Address     *string   `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
}
