package usecase

import (
	"time"

	"yamdb/internal/data/repository"
	"yamdb/pkg/mailer"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Generate(userID uuid.UUID, username, role string) (string, time.Time, error)
}

// Authorizer answers role/object/action questions
type Authorizer interface {
	Can(role, object, action string) bool
}

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Mailer,
	tokens TokenIssuer,
	authz Authorizer,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config.Confirmation, mail, tokens, log),
		User:     NewUserService(repo.User, log),
		Category: NewCategoryService(repo.Category, log),
		Genre:    NewGenreService(repo.Genre, log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, authz, log),
		Comment:  NewCommentService(repo, authz, log),
	}
}
