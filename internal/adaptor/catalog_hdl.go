package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// GetAllCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAllCategories(r.Context(), listFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create category")
		return
	}

	utils.ResponseCreated(w, "Category created", category)
}

// DeleteCategory handles DELETE /api/v1/categories/{slug}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(w, h.log, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

// GetAllGenres handles GET /api/v1/genres
func (h *GenreHandler) GetAllGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GetAllGenres(r.Context(), listFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list genres")
		return
	}

	utils.ResponseSuccess(w, "success", genres)
}

// CreateGenre handles POST /api/v1/genres
func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.GenreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "Genre created", genre)
}

// DeleteGenre handles DELETE /api/v1/genres/{slug}
func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGenre(r.Context(), chi.URLParam(r, "slug")); err != nil {
		handleServiceError(w, h.log, err, "delete genre")
		return
	}

	utils.ResponseNoContent(w)
}
