package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleFilter narrows title listings. Zero values are ignored.
type TitleFilter struct {
	Name     string
	Category string
	Genre    string
	Year     *int
}

type TitleRepository interface {
	// Create inserts the title and its genre links in one transaction
	Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	// Update writes the title; a nil genreIDs keeps the current genres,
	// a non-nil slice (even empty) replaces them
	Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id, t.created_at, t.updated_at,
	       c.id, c.name, c.slug,
	       (SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
`

func scanTitle(row pgx.Row) (*entity.Title, error) {
	var (
		title        entity.Title
		categoryID   *uuid.UUID
		categoryName *string
		categorySlug *string
	)

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.CreatedAt,
		&title.UpdatedAt,
		&categoryID,
		&categoryName,
		&categorySlug,
		&title.Rating,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		title.Category = &entity.Category{Name: *categoryName, Slug: *categorySlug}
		title.Category.ID = *categoryID
	}

	return &title, nil
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create title: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	if err := r.insertGenreLinks(ctx, tx, title.ID, genreIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create title: %w", err)
	}

	return nil
}

// insertGenreLinks writes title_genres rows with one multi-values insert
func (r *titleRepository) insertGenreLinks(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if len(genreIDs) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString(`INSERT INTO title_genres (title_id, genre_id) VALUES `)
	args := make([]any, 0, len(genreIDs)*2)

	for i, genreID := range genreIDs {
		if i > 0 {
			query.WriteString(", ")
		}
		fmt.Fprintf(&query, "($%d, $%d)", i*2+1, i*2+2)
		args = append(args, titleID, genreID)
	}
	query.WriteString(` ON CONFLICT DO NOTHING`)

	if _, err := tx.Exec(ctx, query.String(), args...); err != nil {
		r.log.Error("Failed to link genres to title",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
			zap.Int("count", len(genreIDs)),
		)
		return fmt.Errorf("link genres to title %s: %w", titleID.String(), err)
	}

	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	query := titleSelect + ` WHERE t.id = $1`

	title, err := scanTitle(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return nil, fmt.Errorf("find title %s: %w", id.String(), err)
	}

	if err := r.loadGenres(ctx, title); err != nil {
		return nil, err
	}

	return title, nil
}

// buildWhere renders the filter as a WHERE clause starting at placeholder $1
func (f TitleFilter) buildWhere() (string, []any) {
	var conds []string
	var args []any

	if f.Name != "" {
		args = append(args, likePattern(f.Name))
		conds = append(conds, fmt.Sprintf("t.name ILIKE $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if f.Genre != "" {
		args = append(args, f.Genre)
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $%d)`, len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		conds = append(conds, fmt.Sprintf("t.year = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error) {
	where, args := filter.buildWhere()

	var query strings.Builder
	query.WriteString(titleSelect)
	query.WriteString(where)
	fmt.Fprintf(&query, " ORDER BY t.name, t.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		r.log.Error("Failed to find titles",
			zap.Error(err),
			zap.Any("filter", filter),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate title rows: %w", err)
	}

	for _, title := range titles {
		if err := r.loadGenres(ctx, title); err != nil {
			return nil, err
		}
	}

	r.log.Debug("Titles found",
		zap.Int("count", len(titles)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	where, args := filter.buildWhere()
	query := `SELECT COUNT(*) FROM titles t LEFT JOIN categories c ON c.id = t.category_id` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count titles",
			zap.Error(err),
			zap.Any("filter", filter),
		)
		return 0, fmt.Errorf("count titles: %w", err)
	}

	return total, nil
}

func (r *titleRepository) loadGenres(ctx context.Context, title *entity.Title) error {
	query := `
		SELECT g.id, g.name, g.slug, g.created_at
		FROM genres g
		INNER JOIN title_genres tg ON g.id = tg.genre_id
		WHERE tg.title_id = $1
		ORDER BY g.name
	`

	rows, err := r.db.Query(ctx, query, title.ID)
	if err != nil {
		r.log.Error("Failed to load title genres",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("load genres of title %s: %w", title.ID.String(), err)
	}
	defer rows.Close()

	title.Genres = []entity.Genre{}
	for rows.Next() {
		var genre entity.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return fmt.Errorf("scan title genre row: %w", err)
		}
		title.Genres = append(title.Genres, genre)
	}

	return rows.Err()
}

func (r *titleRepository) Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update title: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update title %s: %w", title.ID.String(), ErrNotFound)
	}

	if genreIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, title.ID); err != nil {
			r.log.Error("Failed to clear title genres",
				zap.Error(err),
				zap.String("title_id", title.ID.String()),
			)
			return fmt.Errorf("clear genres of title %s: %w", title.ID.String(), err)
		}
		if err := r.insertGenreLinks(ctx, tx, title.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update title: %w", err)
	}

	return nil
}

// Delete removes a title together with its reviews, their comments and genre links
func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM titles WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete title %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Title deleted", zap.String("title_id", id.String()))
	return nil
}

func (r *titleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check title existence",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return false, fmt.Errorf("check title %s: %w", id.String(), err)
	}
	return exists, nil
}
