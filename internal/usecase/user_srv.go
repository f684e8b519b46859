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
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetAllUsers(ctx context.Context, query request.ListQuery) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, username string) error

	GetProfile(ctx context.Context, actor utils.Actor) (*response.UserResponse, error)
	// UpdateProfile applies a partial update to the caller's own account; role is ignored
	UpdateProfile(ctx context.Context, actor utils.Actor, req *request.UpdateUserRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, query request.ListQuery) (*response.PaginatedResponse[response.UserResponse], error) {
	limit, offset := query.Limit(), query.Offset()

	users, err := us.userRepo.FindAll(ctx, query.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.userRepo.CountAll(ctx, query.Search)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, user := range users {
		data = append(data, response.UserToResponse(user))
	}

	return response.NewPaginatedResponse(data, query.Page, limit, total), nil
}

func (us *userService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	us.log.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
	}
	return user, nil
}

func (us *userService) GetUser(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return us.apply(ctx, user, req, true)
}

func (us *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := us.findByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted", zap.String("username", username))
	return nil
}

func (us *userService) GetProfile(ctx context.Context, actor utils.Actor) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, actor.ID.String())
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, actor utils.Actor, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, actor.ID.String())
	}

	return us.apply(ctx, user, req, false)
}

func (us *userService) apply(ctx context.Context, user *entity.User, req *request.UpdateUserRequest, allowRole bool) (*response.UserResponse, error) {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if allowRole && req.Role != nil {
		user.Role = *req.Role
	}
	user.UpdatedAt = time.Now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, user.Username)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	us.log.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}
