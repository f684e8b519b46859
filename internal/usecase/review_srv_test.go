package usecase

import (
	"context"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type reviewFixture struct {
	titles   *mockTitleRepo
	reviews  *mockReviewRepo
	comments *mockCommentRepo
	reviewSv ReviewService
	commSv   CommentService
}

func newReviewFixture(t *testing.T) *reviewFixture {
	f := &reviewFixture{
		titles:   new(mockTitleRepo),
		reviews:  new(mockReviewRepo),
		comments: new(mockCommentRepo),
	}
	repo := &repository.Repository{Title: f.titles, Review: f.reviews, Comment: f.comments}
	log := zaptest.NewLogger(t)
	f.reviewSv = NewReviewService(repo, roleAuthorizer{}, log)
	f.commSv = NewCommentService(repo, roleAuthorizer{}, log)
	t.Cleanup(func() {
		f.titles.AssertExpectations(t)
		f.reviews.AssertExpectations(t)
		f.comments.AssertExpectations(t)
	})
	return f
}

func actor(role string) utils.Actor {
	return utils.Actor{ID: uuid.New(), Username: role + "-" + uuid.NewString()[:4], Role: role}
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	titleID := uuid.New()
	author := actor(entity.RoleUser)

	t.Run("ok", func(t *testing.T) {
		f := newReviewFixture(t)
		f.titles.On("Exists", ctx, titleID).Return(true, nil)
		f.reviews.On("FindByAuthorAndTitle", ctx, author.ID, titleID).Return(nil, nil)
		f.reviews.On("Create", ctx, mock.MatchedBy(func(r *entity.Review) bool {
			return r.AuthorID == author.ID && r.TitleID == titleID && r.Score == 8
		})).Return(nil)

		resp, err := f.reviewSv.CreateReview(ctx, author, titleID, &request.CreateReviewRequest{Text: "great", Score: 8})
		require.NoError(t, err)
		assert.Equal(t, author.Username, resp.Author)
		assert.Equal(t, 8, resp.Score)
	})

	t.Run("second review is a conflict", func(t *testing.T) {
		f := newReviewFixture(t)
		f.titles.On("Exists", ctx, titleID).Return(true, nil)
		f.reviews.On("FindByAuthorAndTitle", ctx, author.ID, titleID).Return(&entity.Review{ID: uuid.New()}, nil)

		_, err := f.reviewSv.CreateReview(ctx, author, titleID, &request.CreateReviewRequest{Text: "again", Score: 3})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("missing title", func(t *testing.T) {
		f := newReviewFixture(t)
		f.titles.On("Exists", ctx, titleID).Return(false, nil)

		_, err := f.reviewSv.CreateReview(ctx, author, titleID, &request.CreateReviewRequest{Text: "x", Score: 5})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("score out of range", func(t *testing.T) {
		f := newReviewFixture(t)
		_, err := f.reviewSv.CreateReview(ctx, author, titleID, &request.CreateReviewRequest{Text: "x", Score: 11})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateReviewPermissions(t *testing.T) {
	ctx := context.Background()
	titleID, reviewID := uuid.New(), uuid.New()
	author := actor(entity.RoleUser)
	score := 2

	cases := []struct {
		name    string
		caller  utils.Actor
		allowed bool
	}{
		{"author", author, true},
		{"other user", actor(entity.RoleUser), false},
		{"moderator", actor(entity.RoleModerator), true},
		{"admin", actor(entity.RoleAdmin), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newReviewFixture(t)
			f.titles.On("Exists", ctx, titleID).Return(true, nil)
			f.reviews.On("FindByID", ctx, titleID, reviewID).Return(&entity.Review{
				ID: reviewID, TitleID: titleID, AuthorID: author.ID, AuthorUsername: author.Username, Text: "t", Score: 9,
			}, nil)
			if tc.allowed {
				f.reviews.On("Update", ctx, mock.MatchedBy(func(r *entity.Review) bool { return r.Score == 2 })).Return(nil)
			}

			resp, err := f.reviewSv.UpdateReview(ctx, tc.caller, titleID, reviewID, &request.UpdateReviewRequest{Score: &score})
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, 2, resp.Score)
				assert.Equal(t, author.Username, resp.Author)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestReviewMustBelongToTitle(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	titleID, reviewID := uuid.New(), uuid.New()

	f.titles.On("Exists", ctx, titleID).Return(true, nil)
	f.reviews.On("FindByID", ctx, titleID, reviewID).Return(nil, nil)

	_, err := f.reviewSv.GetReview(ctx, titleID, reviewID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReviewByModerator(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	titleID, reviewID := uuid.New(), uuid.New()

	f.titles.On("Exists", ctx, titleID).Return(true, nil)
	f.reviews.On("FindByID", ctx, titleID, reviewID).Return(&entity.Review{ID: reviewID, AuthorID: uuid.New()}, nil)
	f.reviews.On("Delete", ctx, reviewID).Return(nil)

	require.NoError(t, f.reviewSv.DeleteReview(ctx, actor(entity.RoleModerator), titleID, reviewID))
}

func TestCommentsResolveParentChain(t *testing.T) {
	ctx := context.Background()
	titleID, reviewID := uuid.New(), uuid.New()
	author := actor(entity.RoleUser)

	t.Run("review under another title", func(t *testing.T) {
		f := newReviewFixture(t)
		f.reviews.On("FindByID", ctx, titleID, reviewID).Return(nil, nil)

		_, err := f.commSv.GetReviewComments(ctx, titleID, reviewID, request.PaginatedRequest{Page: 1, PerPage: 10})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create", func(t *testing.T) {
		f := newReviewFixture(t)
		f.reviews.On("FindByID", ctx, titleID, reviewID).Return(&entity.Review{ID: reviewID, TitleID: titleID}, nil)
		f.comments.On("Create", ctx, mock.MatchedBy(func(c *entity.Comment) bool {
			return c.ReviewID == reviewID && c.AuthorID == author.ID
		})).Return(nil)

		resp, err := f.commSv.CreateComment(ctx, author, titleID, reviewID, &request.CommentRequest{Text: "agreed"})
		require.NoError(t, err)
		assert.Equal(t, author.Username, resp.Author)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		f := newReviewFixture(t)
		commentID := uuid.New()
		f.reviews.On("FindByID", ctx, titleID, reviewID).Return(&entity.Review{ID: reviewID, TitleID: titleID}, nil)
		f.comments.On("FindByID", ctx, reviewID, commentID).Return(&entity.Comment{ID: commentID, AuthorID: author.ID}, nil)

		err := f.commSv.DeleteComment(ctx, actor(entity.RoleUser), titleID, reviewID, commentID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("partial update keeps text", func(t *testing.T) {
		f := newReviewFixture(t)
		commentID := uuid.New()
		f.reviews.On("FindByID", ctx, titleID, reviewID).Return(&entity.Review{ID: reviewID, TitleID: titleID}, nil)
		f.comments.On("FindByID", ctx, reviewID, commentID).Return(&entity.Comment{
			ID: commentID, AuthorID: author.ID, AuthorUsername: author.Username, Text: "original",
		}, nil)
		f.comments.On("Update", ctx, mock.MatchedBy(func(c *entity.Comment) bool { return c.Text == "original" })).Return(nil)

		resp, err := f.commSv.UpdateComment(ctx, author, titleID, reviewID, commentID, &request.UpdateCommentRequest{})
		require.NoError(t, err)
		assert.Equal(t, "original", resp.Text)
	})

	t.Run("update rejects empty text", func(t *testing.T) {
		f := newReviewFixture(t)
		empty := ""
		_, err := f.commSv.UpdateComment(ctx, author, titleID, reviewID, uuid.New(), &request.UpdateCommentRequest{Text: &empty})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("list", func(t *testing.T) {
		f := newReviewFixture(t)
		f.reviews.On("FindByID", ctx, titleID, reviewID).Return(&entity.Review{ID: reviewID, TitleID: titleID}, nil)
		f.comments.On("FindByReviewID", ctx, reviewID, 10, 0).Return([]*entity.Comment{{ID: uuid.New(), AuthorUsername: "a", Text: "x"}}, nil)
		f.comments.On("CountByReviewID", ctx, reviewID).Return(int64(1), nil)

		resp, err := f.commSv.GetReviewComments(ctx, titleID, reviewID, request.PaginatedRequest{Page: 1, PerPage: 10})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, 1, resp.Pagination.TotalPages)
	})
}
