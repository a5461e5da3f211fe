package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/response"
)

// TeamService defines the interface for team business logic. All
// mutations are admin only; listing is open to every active user.
type TeamService interface {
	CreateTeam(ctx context.Context, actorID uuid.UUID, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	GetTeam(ctx context.Context, actorID, teamID uuid.UUID) (*dto.TeamResponse, error)
	ListTeams(ctx context.Context, actorID uuid.UUID) ([]dto.TeamResponse, error)
	UpdateTeam(ctx context.Context, actorID, teamID uuid.UUID, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error)
	DeleteTeam(ctx context.Context, actorID, teamID uuid.UUID) error

	AddMember(ctx context.Context, actorID, teamID uuid.UUID, req *dto.AddTeamMemberRequest) (*dto.TeamResponse, error)
	UpdateMemberRole(ctx context.Context, actorID, teamID, userID uuid.UUID, role domain.TeamRole) (*dto.TeamResponse, error)
	RemoveMember(ctx context.Context, actorID, teamID, userID uuid.UUID) error
}

// teamServiceImpl is the implementation of TeamService
type teamServiceImpl struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewTeamService creates a new instance of TeamService
func NewTeamService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) TeamService {
	return &teamServiceImpl{
		teamRepo: teamRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateTeam creates a team. Team names are unique system-wide.
func (s *teamServiceImpl) CreateTeam(ctx context.Context, actorID uuid.UUID, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTeam(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can create teams", "")
	}

	if _, err := s.teamRepo.FindByName(ctx, req.Name); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "A team with this name already exists", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check team name", err.Error())
	}

	team := &domain.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: actor.ID,
		IsActive:    true,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create team", err.Error())
	}

	s.logger.Info("Team created",
		zap.String("team_id", team.ID.String()),
		zap.String("name", team.Name))

	resp := dto.ToTeamResponse(team)
	return &resp, nil
}

// GetTeam returns a team with its members
func (s *teamServiceImpl) GetTeam(ctx context.Context, actorID, teamID uuid.UUID) (*dto.TeamResponse, error) {
	if _, err := loadActor(ctx, s.userRepo, actorID); err != nil {
		return nil, err
	}

	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToTeamResponse(team)
	return &resp, nil
}

// ListTeams returns all active teams
func (s *teamServiceImpl) ListTeams(ctx context.Context, actorID uuid.UUID) ([]dto.TeamResponse, error) {
	if _, err := loadActor(ctx, s.userRepo, actorID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.FindActive(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load teams", err.Error())
	}

	responses := make([]dto.TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, dto.ToTeamResponse(team))
	}
	return responses, nil
}

// UpdateTeam applies a partial update to a team. Admin only.
func (s *teamServiceImpl) UpdateTeam(ctx context.Context, actorID, teamID uuid.UUID, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTeam(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can modify teams", "")
	}

	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != team.Name {
		if existing, err := s.teamRepo.FindByName(ctx, *req.Name); err == nil && existing.ID != team.ID {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "A team with this name already exists", "")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check team name", err.Error())
		}
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update team", err.Error())
	}

	resp := dto.ToTeamResponse(team)
	return &resp, nil
}

// DeleteTeam soft-deletes a team. Admin only.
func (s *teamServiceImpl) DeleteTeam(ctx context.Context, actorID, teamID uuid.UUID) error {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !CanMutateTeam(actor) {
		return response.NewAppError(response.ErrCodeForbidden, "Only admins can delete teams", "")
	}

	if err := s.teamRepo.SoftDelete(ctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Team not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete team", err.Error())
	}
	return nil
}

// AddMember adds a user to a team. Admin only; re-adding an existing
// member is rejected.
func (s *teamServiceImpl) AddMember(ctx context.Context, actorID, teamID uuid.UUID, req *dto.AddTeamMemberRequest) (*dto.TeamResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTeam(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can manage team members", "")
	}

	if _, err := s.findTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "User not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load user", err.Error())
	}

	if _, err := s.teamRepo.FindMembership(ctx, teamID, req.UserID); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User is already a team member", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check membership", err.Error())
	}

	role := domain.TeamRoleMember
	if req.Role != nil {
		role = *req.Role
	}
	membership := &domain.TeamMembership{
		TeamID:   teamID,
		UserID:   req.UserID,
		Role:     role,
		IsActive: true,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.teamRepo.AddMember(ctx, membership); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add team member", err.Error())
	}

	return s.GetTeam(ctx, actorID, teamID)
}

// UpdateMemberRole changes a member's team-scoped role. Admin only.
func (s *teamServiceImpl) UpdateMemberRole(ctx context.Context, actorID, teamID, userID uuid.UUID, role domain.TeamRole) (*dto.TeamResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTeam(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can manage team members", "")
	}

	membership, err := s.teamRepo.FindMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Team member not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load membership", err.Error())
	}

	membership.Role = role
	if err := s.teamRepo.UpdateMembership(ctx, membership); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update membership", err.Error())
	}

	return s.GetTeam(ctx, actorID, teamID)
}

// RemoveMember removes a user from a team. Admin only.
func (s *teamServiceImpl) RemoveMember(ctx context.Context, actorID, teamID, userID uuid.UUID) error {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !CanMutateTeam(actor) {
		return response.NewAppError(response.ErrCodeForbidden, "Only admins can manage team members", "")
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Team member not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove team member", err.Error())
	}
	return nil
}

// findTeam loads an active team or reports NotFound
func (s *teamServiceImpl) findTeam(ctx context.Context, teamID uuid.UUID) (*domain.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Team not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load team", err.Error())
	}
	if !team.IsActive {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Team not found", "")
	}
	return team, nil
}
