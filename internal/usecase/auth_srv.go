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
	"yamdb/pkg/mailer"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCodeTTL      = time.Hour
	confirmationSubject = "YaMDb confirmation code"
)

type AuthService interface {
	// Signup registers the username/email pair (or finds the existing one)
	// and mails a fresh confirmation code
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	// Token redeems a confirmation code for an access token
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config utils.ConfirmationConfig
	mail   mailer.Mailer
	tokens TokenIssuer
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config utils.ConfirmationConfig,
	mail mailer.Mailer,
	tokens TokenIssuer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mail:   mail,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Resolve the account; the pair must match an existing user exactly or be free
	user, created, err := s.findOrCreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Prepare a code; nothing is stored until it has been delivered
	code, record, err := s.newCode(user)
	if err != nil {
		s.rollbackSignup(ctx, user, created)
		return nil, err
	}

	// 4. Deliver it; on failure any earlier code stays valid
	body := fmt.Sprintf("Hello %s,\n\nyour confirmation code is %s\n", user.Username, code)
	if err := s.mail.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		s.log.Error("Failed to send confirmation code",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		s.rollbackSignup(ctx, user, created)
		return nil, fmt.Errorf("send confirmation code: %w", err)
	}

	// 5. Swap it in for the older codes
	if err := s.repo.Confirmation.Replace(ctx, record); err != nil {
		s.rollbackSignup(ctx, user, created)
		return nil, fmt.Errorf("store confirmation code: %w", err)
	}

	s.log.Info("Confirmation code sent",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Bool("new_user", created),
	)

	return &response.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) findOrCreateUser(ctx context.Context, req *request.SignupRequest) (*entity.User, bool, error) {
	byUsername, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, false, fmt.Errorf("check username: %w", err)
	}
	byEmail, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, false, fmt.Errorf("check email: %w", err)
	}

	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		return byUsername, false, nil
	case byUsername != nil:
		return nil, false, fieldError("username", "A user with this username already exists")
	case byEmail != nil:
		return nil, false, fieldError("email", "A user with this email already exists")
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: req.Username,
		Email:    req.Email,
		Role:     entity.RoleUser,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent signup
			return nil, false, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return user, true, nil
}

func (s *authService) newCode(user *entity.User) (string, *entity.ConfirmationCode, error) {
	code, err := utils.GenerateConfirmationCode(s.config.Length)
	if err != nil {
		return "", nil, err
	}

	hash, err := utils.HashCode(code)
	if err != nil {
		return "", nil, err
	}

	ttl := s.config.TTL()
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}

	now := s.now()
	record := &entity.ConfirmationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		CodeHash:  hash,
		ExpiresAt: now.Add(ttl),
	}

	return code, record, nil
}

// rollbackSignup removes a user created in this request so the pair can sign up again
func (s *authService) rollbackSignup(ctx context.Context, user *entity.User, created bool) {
	if !created {
		return
	}
	if err := s.repo.User.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
		s.log.Error("Failed to roll back signup",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
	}
}

func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find user
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, req.Username)
	}

	// 3. Check the latest outstanding code
	active, err := s.repo.Confirmation.FindActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("find confirmation code: %w", err)
	}
	if active == nil || !utils.CheckCodeHash(req.ConfirmationCode, active.CodeHash) {
		s.log.Warn("Rejected confirmation code", zap.String("username", user.Username))
		return nil, ErrInvalidCode
	}

	// 4. Consume it; a concurrent redemption wins only once
	if err := s.repo.Confirmation.MarkAsUsed(ctx, active.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("consume confirmation code: %w", err)
	}

	// 5. Issue the access token
	signed, expiresAt, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("Access token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return &response.TokenResponse{Token: signed, ExpiresAt: expiresAt}, nil
}
