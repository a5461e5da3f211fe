package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
)

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	FindByName(ctx context.Context, name string) (*domain.Team, error)
	FindActive(ctx context.Context) ([]*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, membership *domain.TeamMembership) error
	FindMembership(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMembership, error)
	UpdateMembership(ctx context.Context, membership *domain.TeamMembership) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	ActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

// teamRepositoryImpl is the GORM implementation of TeamRepository
type teamRepositoryImpl struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepositoryImpl{db: db}
}

// Create creates a new team
func (r *teamRepositoryImpl) Create(ctx context.Context, team *domain.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// FindByID finds a team with memberships and their users preloaded
func (r *teamRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	if err := r.db.WithContext(ctx).
		Preload("Memberships").
		Preload("Memberships.User").
		First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by exact name, including inactive ones
// (the unique index covers soft-deleted rows too)
func (r *teamRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.Team, error) {
	var team domain.Team
	if err := r.db.WithContext(ctx).First(&team, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindActive returns all active teams ordered by name
func (r *teamRepositoryImpl) FindActive(ctx context.Context) ([]*domain.Team, error) {
	var teams []*domain.Team
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update saves team changes
func (r *teamRepositoryImpl) Update(ctx context.Context, team *domain.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

// SoftDelete flips is_active off
func (r *teamRepositoryImpl) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddMember creates a membership row
func (r *teamRepositoryImpl) AddMember(ctx context.Context, membership *domain.TeamMembership) error {
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(membership).Error
}

// FindMembership finds the membership for a team/user pair
func (r *teamRepositoryImpl) FindMembership(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMembership, error) {
	var membership domain.TeamMembership
	if err := r.db.WithContext(ctx).
		First(&membership, "team_id = ? AND user_id = ?", teamID, userID).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// UpdateMembership saves membership changes
func (r *teamRepositoryImpl) UpdateMembership(ctx context.Context, membership *domain.TeamMembership) error {
	return r.db.WithContext(ctx).Save(membership).Error
}

// RemoveMember deletes the membership row for a team/user pair
func (r *teamRepositoryImpl) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&domain.TeamMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActiveMemberIDs returns the user IDs of the team's active members
func (r *teamRepositoryImpl) ActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&domain.TeamMembership{}).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
