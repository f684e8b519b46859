package repository

import (
	"errors"
	"fmt"

	"yamdb/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when a write hits a unique constraint
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by updates and deletes that matched no row
	ErrNotFound = errors.New("record not found")
)

type Repository struct {
	User         UserRepository
	Confirmation ConfirmationRepository
	Category     CategoryRepository
	Genre        GenreRepository
	Title        TitleRepository
	Review       ReviewRepository
	Comment      CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Confirmation: NewConfirmationRepository(db, log),
		Category:     NewCategoryRepository(db, log),
		Genre:        NewGenreRepository(db, log),
		Title:        NewTitleRepository(db, log),
		Review:       NewReviewRepository(db, log),
		Comment:      NewCommentRepository(db, log),
	}
}

// wrapWriteErr maps unique violations to ErrDuplicate and keeps the driver error in the chain
func wrapWriteErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", msg, ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
