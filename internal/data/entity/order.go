package entity

import (
	"time"

	"food-ordering/pkg/apperror"

	"github.com/google/uuid"
)

const (
	DefaultReview = "Did you like this order?"
	DefaultRating = 4

	MinItemAmount = 1
	MaxItemAmount = 10
)

var (
	ErrNoLocationRegistered = apperror.Validation("You have no registered location. Please add a location before ordering.")
	ErrEmptyOrder           = apperror.Validation("An order must contain at least one item.")
	ErrOrderNotOwned        = apperror.Authorization("This order is not yours. You cannot review it.")
	ErrAlreadyReviewed      = apperror.Validation("This order has already been reviewed.")
)

// OrderItem is a frozen copy of a food's name and price at order time.
type OrderItem struct {
	FoodID uuid.UUID `json:"food_id"`
	Name   string    `json:"name"`
	Price  float64   `json:"price"`
	Amount int       `json:"amount"`
}

// LocationSnapshot is a frozen copy of the delivery location at order time.
type LocationSnapshot struct {
	LocationID  uuid.UUID  `json:"location_id"`
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // lng, lat
	Address     string     `json:"address"`
	Description *string    `json:"description,omitempty"`
}

// OrderUser is the owner's decrypted name and phone, populated on reads.
type OrderUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

type Order struct {
	Base
	Date       time.Time
	Items      []OrderItem
	UserID     uuid.UUID
	User       *OrderUser
	Location   LocationSnapshot
	Cost       float64
	Review     string
	Rating     int
	ReviewedAt *time.Time
}

// OrderLine is a requested (food, amount) pair before resolution.
type OrderLine struct {
	FoodID uuid.UUID
	Amount int
}

// NewOrder builds a fully snapshotted order. foods must hold one resolved
// food per line, in the same order.
func NewOrder(now time.Time, userID uuid.UUID, lines []OrderLine, foods []*Food, location *Location) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if location == nil {
		return nil, ErrNoLocationRegistered
	}
	if len(foods) != len(lines) {
		return nil, apperror.Internal("resolved foods do not match order lines", nil)
	}

	items := make([]OrderItem, len(lines))
	for i, line := range lines {
		if line.Amount < MinItemAmount || line.Amount > MaxItemAmount {
			return nil, apperror.Validation("Amount must be between 1 and 10.")
		}
		items[i] = OrderItem{
			FoodID: foods[i].ID,
			Name:   foods[i].Name,
			Price:  foods[i].Price,
			Amount: line.Amount,
		}
	}

	snap := location.Snapshot()
	snap.Type = "Point"

	order := &Order{
		Base:     NewBase(now),
		Date:     now,
		Items:    items,
		UserID:   userID,
		Location: snap,
		Review:   DefaultReview,
		Rating:   DefaultRating,
	}
	order.Cost = order.CalcCost()
	return order, nil
}

// CalcCost sums price * amount over the snapshotted items.
func (o *Order) CalcCost() float64 {
	var cost float64
	for _, item := range o.Items {
		cost += item.Price * float64(item.Amount)
	}
	return cost
}

// AddReview attaches a review once, only for the owning user.
func (o *Order) AddReview(userID uuid.UUID, review string, rating int, now time.Time) error {
	if o.UserID != userID {
		return ErrOrderNotOwned
	}
	if o.ReviewedAt != nil {
		return ErrAlreadyReviewed
	}
	o.Review = review
	o.Rating = rating
	o.ReviewedAt = &now
	o.UpdatedAt = now
	return nil
}

// RatingStats aggregates order ratings.
type RatingStats struct {
	AllOrders     int64   `json:"allOrders"`
	RatingAverage float64 `json:"ratingAverage"`
	MinRate       int     `json:"minRate"`
	MaxRate       int     `json:"maxRate"`
}

// DateRange is the half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

// MonthRange covers one calendar month in UTC.
func MonthRange(year, month int) (DateRange, error) {
	if month < 1 || month > 12 {
		return DateRange{}, apperror.Validation("Month should be a value between 1 and 12.")
	}
	if year < 1970 || year > 9999 {
		return DateRange{}, apperror.Validation("Invalid year.")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: from, To: from.AddDate(0, 1, 0)}, nil
}
