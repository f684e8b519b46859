package response

import "yamdb/internal/data/entity"

// TitleResponse renders rating and category as JSON null when absent
type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description"`
	Rating      *float64          `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genre       []GenreResponse   `json:"genre"`
}

func TitleToResponse(title *entity.Title) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Rating:      title.Rating,
		Genre:       make([]GenreResponse, 0, len(title.Genres)),
	}

	if title.Category != nil {
		category := CategoryToResponse(title.Category)
		resp.Category = &category
	}

	for i := range title.Genres {
		resp.Genre = append(resp.Genre, GenreToResponse(&title.Genres[i]))
	}

	return resp
}
