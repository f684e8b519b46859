package adaptor

import (
	"net/http"
	"strconv"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// GetAllTitles handles GET /api/v1/titles
func (h *TitleHandler) GetAllTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := request.TitleQuery{
		PaginatedRequest: pageFromQuery(r),
		Name:             q.Get("name"),
		Category:         q.Get("category"),
		Genre:            q.Get("genre"),
	}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"year": "year must be a number"})
			return
		}
		query.Year = &year
	}

	titles, err := h.service.GetAllTitles(r.Context(), query)
	if err != nil {
		handleServiceError(w, h.log, err, "list titles")
		return
	}

	utils.ResponseSuccess(w, "success", titles)
}

// GetTitle handles GET /api/v1/titles/{title_id}
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "title_id")
	if !ok {
		return
	}

	title, err := h.service.GetTitleByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "success", title)
}

// CreateTitle handles POST /api/v1/titles
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created", title)
}

// UpdateTitle handles PATCH /api/v1/titles/{title_id}
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "title_id")
	if !ok {
		return
	}

	var req request.TitleUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	title, err := h.service.UpdateTitle(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{title_id}
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "title_id")
	if !ok {
		return
	}

	if err := h.service.DeleteTitle(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
