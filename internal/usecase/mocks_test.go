package usecase

import (
	"context"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, search, limit, offset)
	u, _ := args.Get(0).([]*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockConfirmationRepo struct{ mock.Mock }

func (m *mockConfirmationRepo) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *mockConfirmationRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*entity.ConfirmationCode)
	return c, args.Error(1)
}

func (m *mockConfirmationRepo) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockConfirmationRepo) Replace(ctx context.Context, code *entity.ConfirmationCode) error {
	return m.Called(ctx, code).Error(0)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *mockCategoryRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	args := m.Called(ctx, search, limit, offset)
	c, _ := args.Get(0).([]*entity.Category)
	return c, args.Error(1)
}

func (m *mockCategoryRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type mockGenreRepo struct{ mock.Mock }

func (m *mockGenreRepo) Create(ctx context.Context, genre *entity.Genre) error {
	return m.Called(ctx, genre).Error(0)
}

func (m *mockGenreRepo) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	args := m.Called(ctx, slug)
	g, _ := args.Get(0).(*entity.Genre)
	return g, args.Error(1)
}

func (m *mockGenreRepo) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	args := m.Called(ctx, slugs)
	g, _ := args.Get(0).([]*entity.Genre)
	return g, args.Error(1)
}

func (m *mockGenreRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	args := m.Called(ctx, search, limit, offset)
	g, _ := args.Get(0).([]*entity.Genre)
	return g, args.Error(1)
}

func (m *mockGenreRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type mockTitleRepo struct{ mock.Mock }

func (m *mockTitleRepo) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	return m.Called(ctx, title, genreIDs).Error(0)
}

func (m *mockTitleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*entity.Title)
	return t, args.Error(1)
}

func (m *mockTitleRepo) FindAll(ctx context.Context, filter repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	args := m.Called(ctx, filter, limit, offset)
	t, _ := args.Get(0).([]*entity.Title)
	return t, args.Error(1)
}

func (m *mockTitleRepo) CountAll(ctx context.Context, filter repository.TitleFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTitleRepo) Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	return m.Called(ctx, title, genreIDs).Error(0)
}

func (m *mockTitleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTitleRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) FindByID(ctx context.Context, titleID, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, titleID, id)
	r, _ := args.Get(0).(*entity.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(ctx, titleID, limit, offset)
	r, _ := args.Get(0).([]*entity.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, titleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepo) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, authorID, titleID)
	r, _ := args.Get(0).(*entity.Review)
	return r, args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) FindByID(ctx context.Context, reviewID, id uuid.UUID) (*entity.Comment, error) {
	args := m.Called(ctx, reviewID, id)
	c, _ := args.Get(0).(*entity.Comment)
	return c, args.Error(1)
}

func (m *mockCommentRepo) FindByReviewID(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	args := m.Called(ctx, reviewID, limit, offset)
	c, _ := args.Get(0).([]*entity.Comment)
	return c, args.Error(1)
}

func (m *mockCommentRepo) CountByReviewID(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *entity.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Generate(userID uuid.UUID, username, role string) (string, time.Time, error) {
	args := m.Called(userID, username, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// roleAuthorizer grants moderate to moderators and admins only
type roleAuthorizer struct{}

func (roleAuthorizer) Can(role, _, action string) bool {
	if action != "moderate" {
		return true
	}
	return role == entity.RoleModerator || role == entity.RoleAdmin
}
