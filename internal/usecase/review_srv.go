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
	"yamdb/pkg/authz"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetTitleReviews(ctx context.Context, titleID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*response.ReviewResponse, error)
	CreateReview(ctx context.Context, actor utils.Actor, titleID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID) error
}

type reviewService struct {
	repo  *repository.Repository
	authz Authorizer
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, authorizer Authorizer, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		authz: authorizer,
		log:   log.With(zap.String("service", "review")),
	}
}

// canModify allows the author, or anyone whose role may moderate object
func canModify(authorizer Authorizer, actor utils.Actor, authorID uuid.UUID, object string) bool {
	return actor.ID == authorID || authorizer.Can(actor.Role, object, authz.ActModerate)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID uuid.UUID) error {
	exists, err := s.repo.Title.Exists(ctx, titleID)
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: title %s", ErrNotFound, titleID.String())
	}
	return nil
}

func (s *reviewService) findReview(ctx context.Context, titleID, reviewID uuid.UUID) (*entity.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, reviewID.String())
	}
	return review, nil
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	limit, offset := page.Limit(), page.Offset()

	reviews, err := s.repo.Review.FindByTitleID(ctx, titleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	data := make([]response.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		data = append(data, response.ReviewToResponse(review))
	}

	return response.NewPaginatedResponse(data, page.Page, limit, total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, actor utils.Actor, titleID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Title must exist
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	// 3. One review per author and title
	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.ID, titleID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: you have already reviewed this title", ErrConflict)
	}

	// 4. Save
	review := &entity.Review{
		ID:             uuid.New(),
		TitleID:        titleID,
		AuthorID:       actor.ID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
		Score:          req.Score,
		PubDate:        time.Now(),
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: you have already reviewed this title", ErrConflict)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", titleID.String()),
		zap.String("author", actor.Username),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !canModify(s.authz, actor, review.AuthorID, authz.ObjReview) {
		s.log.Warn("Review update denied",
			zap.String("review_id", reviewID.String()),
			zap.String("actor", actor.Username),
		)
		return nil, fmt.Errorf("%w: only the author or a moderator may edit this review", ErrForbidden)
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: review %s", ErrNotFound, reviewID.String())
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID) error {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !canModify(s.authz, actor, review.AuthorID, authz.ObjReview) {
		s.log.Warn("Review delete denied",
			zap.String("review_id", reviewID.String()),
			zap.String("actor", actor.Username),
		)
		return fmt.Errorf("%w: only the author or a moderator may delete this review", ErrForbidden)
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: review %s", ErrNotFound, reviewID.String())
		}
		return fmt.Errorf("delete review: %w", err)
	}

	return nil
}
