package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/response"
)

// loadActor resolves the authenticated caller to a user row. Every
// permission decision runs against the stored role, not the token claim.
func loadActor(ctx context.Context, users repository.UserRepository, actorID uuid.UUID) (*domain.User, error) {
	actor, err := users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Unknown user", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load user", err.Error())
	}
	if !actor.IsActive {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Account is deactivated", "")
	}
	return actor, nil
}
