package adaptor

import (
	"context"
	"errors"
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CategoryHandler
	Genre    *GenreHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
	Health   *HealthHandler
}

func NewHandler(service *usecase.Service, db Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Category: NewCategoryHandler(service.Category, log),
		Genre:    NewGenreHandler(service.Genre, log),
		Title:    NewTitleHandler(service.Title, log),
		Review:   NewReviewHandler(service.Review, log),
		Comment:  NewCommentHandler(service.Comment, log),
		Health:   NewHealthHandler(db, log),
	}
}

// handleServiceError maps service sentinels onto HTTP statuses
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Debug(operation+" validation failed", zap.Any("fields", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrConflict),
		errors.Is(err, usecase.ErrInvalidCode):
		log.Debug(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeBody reads a JSON body, answering 400 itself when it cannot
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// uuidParam parses a UUID path segment; malformed ids cannot match a row so they are 404
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseNotFound(w, "Not found")
		return uuid.Nil, false
	}
	return id, true
}

// requireActor fetches the caller; routes reaching it are already behind a permission check
func requireActor(w http.ResponseWriter, r *http.Request) (utils.Actor, bool) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.Actor{}, false
	}
	return actor, true
}

func pageFromQuery(r *http.Request) request.PaginatedRequest {
	q := r.URL.Query()
	return request.NewPaginatedRequest(q.Get("page"), q.Get("per_page"))
}

func listFromQuery(r *http.Request) request.ListQuery {
	return request.ListQuery{
		PaginatedRequest: pageFromQuery(r),
		Search:           r.URL.Query().Get("search"),
	}
}
