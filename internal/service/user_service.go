package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/response"
)

// UserService exposes the user listing consumed by assignment pickers
// and the current-user lookup
type UserService interface {
	GetMe(ctx context.Context, actorID uuid.UUID) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, actorID uuid.UUID) ([]dto.UserResponse, error)
}

// userServiceImpl is the implementation of UserService
type userServiceImpl struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{userRepo: userRepo, logger: logger}
}

// GetMe returns the calling user
func (s *userServiceImpl) GetMe(ctx context.Context, actorID uuid.UUID) (*dto.UserResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(actor)
	return &resp, nil
}

// ListUsers returns all active users ordered by name
func (s *userServiceImpl) ListUsers(ctx context.Context, actorID uuid.UUID) ([]dto.UserResponse, error) {
	if _, err := loadActor(ctx, s.userRepo, actorID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindActive(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load users", err.Error())
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.ToUserResponse(user))
	}
	return responses, nil
}
