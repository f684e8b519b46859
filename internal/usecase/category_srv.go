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

type CategoryService interface {
	GetAllCategories(ctx context.Context, query request.ListQuery) (*response.PaginatedResponse[response.CategoryResponse], error)
	CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	log          *zap.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, log *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		log:          log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context, query request.ListQuery) (*response.PaginatedResponse[response.CategoryResponse], error) {
	limit, offset := query.Limit(), query.Offset()

	categories, err := s.categoryRepo.FindAll(ctx, query.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	total, err := s.categoryRepo.CountAll(ctx, query.Search)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	data := make([]response.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		data = append(data, response.CategoryToResponse(c))
	}

	return response.NewPaginatedResponse(data, query.Page, limit, total), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       req.Name,
		Slug:       req.Slug,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("slug", "A category with this slug already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created", zap.String("slug", category.Slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: category %s", ErrNotFound, slug)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
