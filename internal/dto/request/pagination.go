package request

import "yamdb/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// NewPaginatedRequest reads page and per_page query values with defaults
func NewPaginatedRequest(page, perPage string) PaginatedRequest {
	return PaginatedRequest{
		Page:    utils.ParseInt(page, 1),
		PerPage: utils.ParseInt(perPage, utils.DefaultPerPage),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return utils.DefaultPerPage
	}
	if p.PerPage > utils.MaxPerPage {
		return utils.MaxPerPage
	}
	return p.PerPage
}

// ListQuery is a paginated listing with an optional name search
type ListQuery struct {
	PaginatedRequest
	Search string
}
