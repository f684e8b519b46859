package response

import "yamdb/internal/data/entity"

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{Name: genre.Name, Slug: genre.Slug}
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{Name: category.Name, Slug: category.Slug}
}
