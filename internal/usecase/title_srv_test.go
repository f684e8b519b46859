package usecase

import (
	"context"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type titleFixture struct {
	titles     *mockTitleRepo
	categories *mockCategoryRepo
	genres     *mockGenreRepo
	svc        *titleService
}

func newTitleFixture(t *testing.T) *titleFixture {
	f := &titleFixture{
		titles:     new(mockTitleRepo),
		categories: new(mockCategoryRepo),
		genres:     new(mockGenreRepo),
	}
	repo := &repository.Repository{Title: f.titles, Category: f.categories, Genre: f.genres}
	f.svc = NewTitleService(repo, zaptest.NewLogger(t)).(*titleService)
	f.svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		f.titles.AssertExpectations(t)
		f.categories.AssertExpectations(t)
		f.genres.AssertExpectations(t)
	})
	return f
}

func category(slug string) *entity.Category {
	c := &entity.Category{Name: slug, Slug: slug}
	c.ID = uuid.New()
	return c
}

func genre(slug string) *entity.Genre {
	g := &entity.Genre{Name: slug, Slug: slug}
	g.ID = uuid.New()
	return g
}

func TestCreateTitleResolvesSlugs(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	film := category("film")
	drama, scifi := genre("drama"), genre("sci-fi")

	f.categories.On("FindBySlug", ctx, "film").Return(film, nil)
	f.genres.On("FindBySlugs", ctx, []string{"drama", "sci-fi"}).Return([]*entity.Genre{scifi, drama}, nil)

	reloaded := &entity.Title{Name: "Solaris", Year: 1972, Category: film, Genres: []entity.Genre{*drama, *scifi}}

	var created *entity.Title
	f.titles.On("Create", ctx, mock.Anything, []uuid.UUID{drama.ID, scifi.ID}).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.Title)
		reloaded.ID = created.ID
	}).Return(nil)
	f.titles.On("FindByID", ctx, mock.Anything).Return(reloaded, nil)

	resp, err := f.svc.CreateTitle(ctx, &request.TitleRequest{
		Name:     "Solaris",
		Year:     1972,
		Category: "film",
		Genre:    []string{"drama", "sci-fi", "drama"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, film.ID, *created.CategoryID)
	assert.Equal(t, created.ID.String(), resp.ID)
	assert.Nil(t, resp.Rating)
	assert.Equal(t, "film", resp.Category.Slug)
	assert.Len(t, resp.Genre, 2)
}

func TestCreateTitleRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("future year", func(t *testing.T) {
		f := newTitleFixture(t)
		_, err := f.svc.CreateTitle(ctx, &request.TitleRequest{Name: "Soon", Year: 2030, Category: "film"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "year")
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newTitleFixture(t)
		f.categories.On("FindBySlug", ctx, "nope").Return(nil, nil)
		_, err := f.svc.CreateTitle(ctx, &request.TitleRequest{Name: "X", Year: 2000, Category: "nope"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown genre", func(t *testing.T) {
		f := newTitleFixture(t)
		f.categories.On("FindBySlug", ctx, "film").Return(category("film"), nil)
		f.genres.On("FindBySlugs", ctx, []string{"drama", "nope"}).Return([]*entity.Genre{genre("drama")}, nil)
		_, err := f.svc.CreateTitle(ctx, &request.TitleRequest{Name: "X", Year: 2000, Category: "film", Genre: []string{"drama", "nope"}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["genre"], "nope")
	})
}

func TestUpdateTitleGenreSemantics(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	stored := func() *entity.Title {
		return &entity.Title{Base: entity.Base{ID: id}, Name: "Mirror", Year: 1975}
	}

	t.Run("absent genre keeps links", func(t *testing.T) {
		f := newTitleFixture(t)
		f.titles.On("FindByID", ctx, id).Return(stored(), nil)
		f.titles.On("Update", ctx, mock.MatchedBy(func(tt *entity.Title) bool {
			return tt.Name == "The Mirror"
		}), []uuid.UUID(nil)).Return(nil)

		name := "The Mirror"
		_, err := f.svc.UpdateTitle(ctx, id, &request.TitleUpdateRequest{Name: &name})
		require.NoError(t, err)
	})

	t.Run("empty genre clears links", func(t *testing.T) {
		f := newTitleFixture(t)
		f.titles.On("FindByID", ctx, id).Return(stored(), nil)
		f.titles.On("Update", ctx, mock.Anything, []uuid.UUID{}).Return(nil)

		_, err := f.svc.UpdateTitle(ctx, id, &request.TitleUpdateRequest{Genre: []string{}})
		require.NoError(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		f := newTitleFixture(t)
		f.titles.On("FindByID", ctx, id).Return(nil, nil)

		_, err := f.svc.UpdateTitle(ctx, id, &request.TitleUpdateRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetAllTitlesPassesFilter(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()
	year := 1979
	rating := 8.5

	filter := repository.TitleFilter{Genre: "sci-fi", Year: &year}
	f.titles.On("FindAll", ctx, filter, 10, 10).Return([]*entity.Title{{Name: "Stalker", Year: 1979, Rating: &rating}}, nil)
	f.titles.On("CountAll", ctx, filter).Return(int64(11), nil)

	resp, err := f.svc.GetAllTitles(ctx, request.TitleQuery{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 10},
		Genre:            "sci-fi",
		Year:             &year,
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 8.5, *resp.Data[0].Rating)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.NotNil(t, resp.Data[0].Genre)
}

func TestDeleteTitleNotFound(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()
	id := uuid.New()
	f.titles.On("Delete", ctx, id).Return(repository.ErrNotFound)

	assert.ErrorIs(t, f.svc.DeleteTitle(ctx, id), ErrNotFound)
}
