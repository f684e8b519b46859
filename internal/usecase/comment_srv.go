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

type CommentService interface {
	GetReviewComments(ctx context.Context, titleID, reviewID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID uuid.UUID, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID uuid.UUID) error
}

type commentService struct {
	repo  *repository.Repository
	authz Authorizer
	log   *zap.Logger
}

func NewCommentService(repo *repository.Repository, authorizer Authorizer, log *zap.Logger) CommentService {
	return &commentService{
		repo:  repo,
		authz: authorizer,
		log:   log.With(zap.String("service", "comment")),
	}
}

// requireReview resolves the parent chain; a review under another title is not found
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID uuid.UUID) error {
	review, err := s.repo.Review.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return fmt.Errorf("%w: review %s of title %s", ErrNotFound, reviewID.String(), titleID.String())
	}
	return nil
}

func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*entity.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return nil, fmt.Errorf("%w: comment %s", ErrNotFound, commentID.String())
	}
	return comment, nil
}

func (s *commentService) GetReviewComments(ctx context.Context, titleID, reviewID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	limit, offset := page.Limit(), page.Offset()

	comments, err := s.repo.Comment.FindByReviewID(ctx, reviewID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	data := make([]response.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		data = append(data, response.CommentToResponse(comment))
	}

	return response.NewPaginatedResponse(data, page.Page, limit, total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor utils.Actor, titleID, reviewID uuid.UUID, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ID:             uuid.New(),
		ReviewID:       reviewID,
		AuthorID:       actor.ID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
		PubDate:        time.Now(),
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", reviewID.String()),
		zap.String("author", actor.Username),
	)

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID uuid.UUID, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(s.authz, actor, comment.AuthorID, authz.ObjComment) {
		return nil, fmt.Errorf("%w: only the author or a moderator may edit this comment", ErrForbidden)
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}
	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: comment %s", ErrNotFound, commentID.String())
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID uuid.UUID) error {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !canModify(s.authz, actor, comment.AuthorID, authz.ObjComment) {
		return fmt.Errorf("%w: only the author or a moderator may delete this comment", ErrForbidden)
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: comment %s", ErrNotFound, commentID.String())
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	return nil
}
