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

type TitleService interface {
	GetAllTitles(ctx context.Context, query request.TitleQuery) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitleByID(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, id uuid.UUID) error
}

type titleService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
		now:  time.Now,
	}
}

func (s *titleService) GetAllTitles(ctx context.Context, query request.TitleQuery) (*response.PaginatedResponse[response.TitleResponse], error) {
	filter := repository.TitleFilter{
		Name:     query.Name,
		Category: query.Category,
		Genre:    query.Genre,
		Year:     query.Year,
	}
	limit, offset := query.Limit(), query.Offset()

	titles, err := s.repo.Title.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}

	data := make([]response.TitleResponse, 0, len(titles))
	for _, title := range titles {
		data = append(data, response.TitleToResponse(title))
	}

	return response.NewPaginatedResponse(data, query.Page, limit, total), nil
}

func (s *titleService) GetTitleByID(ctx context.Context, id uuid.UUID) (*response.TitleResponse, error) {
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, fmt.Errorf("%w: title %s", ErrNotFound, id.String())
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

func (s *titleService) CreateTitle(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	// 1. Validate payload
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.checkYear(req.Year); err != nil {
		return nil, err
	}

	// 2. Resolve slugs
	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	// 3. Persist title and genre links together
	now := s.now()
	title := &entity.Title{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.String("name", title.Name),
		zap.Int("genres", len(genreIDs)),
	)

	return s.GetTitleByID(ctx, title.ID)
}

func (s *titleService) UpdateTitle(ctx context.Context, id uuid.UUID, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, fmt.Errorf("%w: title %s", ErrNotFound, id.String())
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := s.checkYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	var genreIDs []uuid.UUID
	if req.Genre != nil {
		genreIDs, err = s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		if genreIDs == nil {
			genreIDs = []uuid.UUID{}
		}
	}

	title.UpdatedAt = s.now()
	if err := s.repo.Title.Update(ctx, title, genreIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: title %s", ErrNotFound, id.String())
		}
		return nil, fmt.Errorf("update title: %w", err)
	}

	s.log.Info("Title updated", zap.String("title_id", id.String()))

	return s.GetTitleByID(ctx, id)
}

func (s *titleService) DeleteTitle(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Title.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: title %s", ErrNotFound, id.String())
		}
		return fmt.Errorf("delete title: %w", err)
	}
	return nil
}

func (s *titleService) checkYear(year int) error {
	if year > s.now().Year() {
		return fieldError("year", "Year cannot be in the future")
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, fieldError("category", fmt.Sprintf("Unknown category %q", slug))
	}
	return category, nil
}

// resolveGenres maps slugs to ids; any unknown slug fails the whole request
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		unique = append(unique, slug)
	}

	if len(unique) == 0 {
		return nil, nil
	}

	genres, err := s.repo.Genre.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	found := make(map[string]uuid.UUID, len(genres))
	for _, g := range genres {
		found[g.Slug] = g.ID
	}

	ids := make([]uuid.UUID, 0, len(unique))
	for _, slug := range unique {
		id, ok := found[slug]
		if !ok {
			return nil, fieldError("genre", fmt.Sprintf("Unknown genre %q", slug))
		}
		ids = append(ids, id)
	}

	return ids, nil
}
