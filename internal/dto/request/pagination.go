package request

import "food-ordering/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// NewPaginatedRequest parses page and per_page query values, falling back
// to page 1 of 10.
func NewPaginatedRequest(page, perPage string) PaginatedRequest {
	return PaginatedRequest{
		Page:    utils.ParseInt(page, 1),
		PerPage: utils.ClampPerPage(utils.ParseInt(perPage, 10)),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	return utils.ClampPerPage(p.PerPage)
}
