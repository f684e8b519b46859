package adaptor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockTitleService struct{ mock.Mock }

func (m *mockTitleService) GetAllTitles(ctx context.Context, query request.TitleQuery) (*response.PaginatedResponse[response.TitleResponse], error) {
	args := m.Called(ctx, query)
	p, _ := args.Get(0).(*response.PaginatedResponse[response.TitleResponse])
	return p, args.Error(1)
}

func (m *mockTitleService) GetTitleByID(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*response.TitleResponse)
	return t, args.Error(1)
}

func (m *mockTitleService) CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	args := m.Called(ctx, req)
	t, _ := args.Get(0).(*response.TitleResponse)
	return t, args.Error(1)
}

func (m *mockTitleService) UpdateTitle(ctx context.Context, id uuid.UUID, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	args := m.Called(ctx, id, req)
	t, _ := args.Get(0).(*response.TitleResponse)
	return t, args.Error(1)
}

func (m *mockTitleService) DeleteTitle(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockReviewService struct{ mock.Mock }

func (m *mockReviewService) GetTitleReviews(ctx context.Context, titleID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	args := m.Called(ctx, titleID, page)
	p, _ := args.Get(0).(*response.PaginatedResponse[response.ReviewResponse])
	return p, args.Error(1)
}

func (m *mockReviewService) GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*response.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	r, _ := args.Get(0).(*response.ReviewResponse)
	return r, args.Error(1)
}

func (m *mockReviewService) CreateReview(ctx context.Context, actor utils.Actor, titleID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	r, _ := args.Get(0).(*response.ReviewResponse)
	return r, args.Error(1)
}

func (m *mockReviewService) UpdateReview(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	r, _ := args.Get(0).(*response.ReviewResponse)
	return r, args.Error(1)
}

func (m *mockReviewService) DeleteReview(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID) error {
	return m.Called(ctx, actor, titleID, reviewID).Error(0)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"field validation", &usecase.ValidationError{Fields: map[string]string{"slug": "taken"}}, http.StatusBadRequest},
		{"conflict", fmt.Errorf("%w: dup", usecase.ErrConflict), http.StatusBadRequest},
		{"invalid code", usecase.ErrInvalidCode, http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: title", usecase.ErrNotFound), http.StatusNotFound},
		{"forbidden", fmt.Errorf("%w: nope", usecase.ErrForbidden), http.StatusForbidden},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zaptest.NewLogger(t), tc.err, "test")
			assert.Equal(t, tc.status, rec.Code)

			resp := decodeEnvelope(t, rec)
			assert.False(t, resp.Status)
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Message, "connection reset")
			}
		})
	}
}

func TestHandleServiceErrorCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zaptest.NewLogger(t), &usecase.ValidationError{Fields: map[string]string{"year": "in the future"}}, "create title")

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "in the future", body.Errors["year"])
}

func titleRouter(h *TitleHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/titles", h.GetAllTitles)
	r.Get("/titles/{title_id}", h.GetTitle)
	r.Post("/titles", h.CreateTitle)
	return r
}

func TestGetAllTitlesParsesFilters(t *testing.T) {
	svc := new(mockTitleService)
	h := NewTitleHandler(svc, zaptest.NewLogger(t))

	year := 1979
	svc.On("GetAllTitles", mock.Anything, request.TitleQuery{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 5},
		Genre:            "sci-fi",
		Category:         "film",
		Year:             &year,
	}).Return(response.NewPaginatedResponse[response.TitleResponse](nil, 2, 5, 0), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/titles?page=2&per_page=5&genre=sci-fi&category=film&year=1979", nil)
	titleRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
	svc.AssertExpectations(t)
}

func TestGetAllTitlesRejectsBadYear(t *testing.T) {
	svc := new(mockTitleService)
	h := NewTitleHandler(svc, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	titleRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/titles?year=soon", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetAllTitles", mock.Anything, mock.Anything)
}

func TestGetTitleMalformedID(t *testing.T) {
	svc := new(mockTitleService)
	h := NewTitleHandler(svc, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	titleRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/titles/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTitleBadBody(t *testing.T) {
	h := NewTitleHandler(new(mockTitleService), zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	titleRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/titles", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReview(t *testing.T) {
	titleID := uuid.New()
	actor := utils.Actor{ID: uuid.New(), Username: "reader", Role: "user"}

	route := func(h *ReviewHandler) http.Handler {
		r := chi.NewRouter()
		r.Post("/titles/{title_id}/reviews", h.CreateReview)
		return r
	}

	t.Run("anonymous", func(t *testing.T) {
		h := NewReviewHandler(new(mockReviewService), zaptest.NewLogger(t))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/titles/"+titleID.String()+"/reviews", strings.NewReader(`{"text":"x","score":5}`))
		route(h).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		svc := new(mockReviewService)
		h := NewReviewHandler(svc, zaptest.NewLogger(t))
		svc.On("CreateReview", mock.Anything, actor, titleID, &request.CreateReviewRequest{Text: "x", Score: 5}).
			Return(&response.ReviewResponse{ID: uuid.NewString(), Text: "x", Author: "reader", Score: 5}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/titles/"+titleID.String()+"/reviews", strings.NewReader(`{"text":"x","score":5}`))
		req = req.WithContext(utils.SetActorContext(req.Context(), actor))
		route(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"author":"reader"`)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := new(mockReviewService)
		h := NewReviewHandler(svc, zaptest.NewLogger(t))
		svc.On("CreateReview", mock.Anything, actor, titleID, mock.Anything).
			Return(nil, fmt.Errorf("%w: already reviewed", usecase.ErrConflict))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/titles/"+titleID.String()+"/reviews", strings.NewReader(`{"text":"x","score":5}`))
		req = req.WithContext(utils.SetActorContext(req.Context(), actor))
		route(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteReviewForbidden(t *testing.T) {
	titleID, reviewID := uuid.New(), uuid.New()
	actor := utils.Actor{ID: uuid.New(), Username: "stranger", Role: "user"}

	svc := new(mockReviewService)
	h := NewReviewHandler(svc, zaptest.NewLogger(t))
	svc.On("DeleteReview", mock.Anything, actor, titleID, reviewID).Return(usecase.ErrForbidden)

	r := chi.NewRouter()
	r.Delete("/titles/{title_id}/reviews/{review_id}", h.DeleteReview)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/titles/%s/reviews/%s", titleID, reviewID), nil)
	req = req.WithContext(utils.SetActorContext(req.Context(), actor))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHealthHandler(fakePinger{}, zaptest.NewLogger(t)).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHealthHandler(fakePinger{err: errors.New("refused")}, zaptest.NewLogger(t)).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
