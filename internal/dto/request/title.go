package request

type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category" validate:"required,max=50,slug"`
	Genre       []string `json:"genre" validate:"dive,max=50,slug"`
}

// TitleUpdateRequest is a partial update. A nil Genre keeps the current
// genres; an empty list clears them.
type TitleUpdateRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=256"`
	Year        *int     `json:"year,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=50,slug"`
	Genre       []string `json:"genre,omitempty" validate:"dive,max=50,slug"`
}

type TitleQuery struct {
	PaginatedRequest
	Name     string
	Category string
	Genre    string
	Year     *int
}
