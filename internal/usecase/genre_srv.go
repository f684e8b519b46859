package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GenreService interface {
	GetAllGenres(ctx context.Context, query request.ListQuery) (*response.PaginatedResponse[response.GenreResponse], error)
	CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
	log       *zap.Logger
}

func NewGenreService(genreRepo repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		genreRepo: genreRepo,
		log:       log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) GetAllGenres(ctx context.Context, query request.ListQuery) (*response.PaginatedResponse[response.GenreResponse], error) {
	limit, offset := query.Limit(), query.Offset()

	genres, err := s.genreRepo.FindAll(ctx, query.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	total, err := s.genreRepo.CountAll(ctx, query.Search)
	if err != nil {
		return nil, fmt.Errorf("count genres: %w", err)
	}

	data := make([]response.GenreResponse, 0, len(genres))
	for _, g := range genres {
		data = append(data, response.GenreToResponse(g))
	}

	return response.NewPaginatedResponse(data, query.Page, limit, total), nil
}

func (s *genreService) CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       req.Name,
		Slug:       req.Slug,
	}

	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("slug", "A genre with this slug already exists")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.log.Info("Genre created", zap.String("slug", genre.Slug))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: genre %s", ErrNotFound, slug)
		}
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}
