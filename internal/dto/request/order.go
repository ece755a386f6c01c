package request

type OrderItemRequest struct {
	Food   string `json:"food" validate:"required,uuid"`
	Amount int    `json:"amount" validate:"required,min=1,max=10"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReviewOrderRequest struct {
	Review *string `json:"review,omitempty" validate:"required_without=Rating,omitempty,min=4,max=1000"`
	Rating *int    `json:"rating,omitempty" validate:"required_without=Review,omitempty,min=1,max=5"`
}
