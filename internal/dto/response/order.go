package response

import (
	"time"

	"food-ordering/internal/data/entity"
)

type OrderResponse struct {
	ID         string                  `json:"id"`
	Date       time.Time               `json:"date"`
	Items      []entity.OrderItem      `json:"items"`
	User       *entity.OrderUser       `json:"user,omitempty"`
	Location   entity.LocationSnapshot `json:"location"`
	Cost       float64                 `json:"cost"`
	Review     string                  `json:"review"`
	Rating     int                     `json:"rating"`
	ReviewedAt *time.Time              `json:"reviewed_at,omitempty"`
}

// TopOrderResponse is one row of the most expensive orders report.
type TopOrderResponse struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Cost  float64   `json:"cost"`
	User  string    `json:"user"`
	Phone string    `json:"phone"`
}

func OrderToResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID.String(),
		Date:       o.Date,
		Items:      o.Items,
		User:       o.User,
		Location:   o.Location,
		Cost:       o.Cost,
		Review:     o.Review,
		Rating:     o.Rating,
		ReviewedAt: o.ReviewedAt,
	}
}

func OrdersToResponse(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = OrderToResponse(o)
	}
	return out
}

func TopOrdersToResponse(orders []*entity.Order) []TopOrderResponse {
	out := make([]TopOrderResponse, len(orders))
	for i, o := range orders {
		out[i] = TopOrderResponse{ID: o.ID.String(), Date: o.Date, Cost: o.Cost}
		if o.User != nil {
			out[i].User = o.User.Name
			out[i].Phone = o.User.Phone
		}
	}
	return out
}
