package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/metrics"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/response"
)

// ProjectService defines the interface for project and board business logic
type ProjectService interface {
	CreateProject(ctx context.Context, actorID uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, actorID, projectID uuid.UUID) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, actorID uuid.UUID) ([]dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, actorID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, actorID, projectID uuid.UUID) error

	CreateBoard(ctx context.Context, actorID, projectID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoards(ctx context.Context, actorID, projectID uuid.UUID) ([]dto.BoardResponse, error)
	UpdateBoard(ctx context.Context, actorID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error)
	DeleteBoard(ctx context.Context, actorID, boardID uuid.UUID) error
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateProject creates a project with its default board. Admin only.
func (s *projectServiceImpl) CreateProject(ctx context.Context, actorID uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateProject(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can create projects", "")
	}

	if _, err := s.projectRepo.FindByName(ctx, req.Name); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "A project with this name already exists", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project name", err.Error())
	}

	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: actor.ID,
		TeamID:      req.TeamID,
		IsActive:    true,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	// Every project starts with one board so tasks always have a home.
	board := &domain.Board{
		ProjectID: project.ID,
		Name:      fmt.Sprintf("%s - Main Board", project.Name),
	}
	if err := s.projectRepo.CreateBoard(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create default board", err.Error())
	}
	project.Boards = []domain.Board{*board}

	s.updateProjectGauge(ctx)
	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("name", project.Name))

	resp := dto.ToProjectResponse(project)
	return &resp, nil
}

// GetProject returns a project the caller may see
func (s *projectServiceImpl) GetProject(ctx context.Context, actorID, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	hasAssigned := false
	if !actor.IsAdmin() && project.CreatedByID != actor.ID {
		hasAssigned, err = s.projectRepo.HasAssignedTask(ctx, projectID, actor.ID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project visibility", err.Error())
		}
	}
	if !CanViewProject(actor, project, hasAssigned) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to view this project", "")
	}

	resp := dto.ToProjectResponse(project)
	return &resp, nil
}

// ListProjects returns the projects visible to the caller: everything
// for admins, created-or-assigned for members
func (s *projectServiceImpl) ListProjects(ctx context.Context, actorID uuid.UUID) ([]dto.ProjectResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	var projects []*domain.Project
	if actor.IsAdmin() {
		projects, err = s.projectRepo.FindActive(ctx)
	} else {
		projects, err = s.projectRepo.FindVisibleToUser(ctx, actor.ID)
	}
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load projects", err.Error())
	}

	responses := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, dto.ToProjectResponse(project))
	}
	return responses, nil
}

// UpdateProject applies a partial update to a project. Admin only.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, actorID, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateProject(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can modify projects", "")
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != project.Name {
		if existing, err := s.projectRepo.FindByName(ctx, *req.Name); err == nil && existing.ID != project.ID {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "A project with this name already exists", "")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project name", err.Error())
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.TeamID != nil {
		project.TeamID = req.TeamID
	}
	if req.ClearTeam {
		project.TeamID = nil
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update project", err.Error())
	}

	resp := dto.ToProjectResponse(project)
	return &resp, nil
}

// DeleteProject soft-deletes a project. Admin only; rows never leave
// the table.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, actorID, projectID uuid.UUID) error {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !CanMutateProject(actor) {
		return response.NewAppError(response.ErrCodeForbidden, "Only admins can delete projects", "")
	}

	if err := s.projectRepo.SoftDelete(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Project not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete project", err.Error())
	}

	s.updateProjectGauge(ctx)
	return nil
}

// CreateBoard adds a board to a project. Admin only.
func (s *projectServiceImpl) CreateBoard(ctx context.Context, actorID, projectID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateProject(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can create boards", "")
	}

	if _, err := s.findProject(ctx, projectID); err != nil {
		return nil, err
	}

	board := &domain.Board{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.projectRepo.CreateBoard(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create board", err.Error())
	}

	resp := dto.ToBoardResponse(board)
	return &resp, nil
}

// GetBoards lists a project's boards for callers who may see the project
func (s *projectServiceImpl) GetBoards(ctx context.Context, actorID, projectID uuid.UUID) ([]dto.BoardResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	hasAssigned := false
	if !actor.IsAdmin() && project.CreatedByID != actor.ID {
		hasAssigned, err = s.projectRepo.HasAssignedTask(ctx, projectID, actor.ID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project visibility", err.Error())
		}
	}
	if !CanViewProject(actor, project, hasAssigned) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to view this project", "")
	}

	boards, err := s.projectRepo.FindBoardsByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load boards", err.Error())
	}

	responses := make([]dto.BoardResponse, 0, len(boards))
	for _, board := range boards {
		responses = append(responses, dto.ToBoardResponse(board))
	}
	return responses, nil
}

// UpdateBoard applies a partial update to a board. Admin only.
func (s *projectServiceImpl) UpdateBoard(ctx context.Context, actorID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if !CanMutateProject(actor) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can modify boards", "")
	}

	board, err := s.findBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}

	if err := s.projectRepo.UpdateBoard(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update board", err.Error())
	}

	resp := dto.ToBoardResponse(board)
	return &resp, nil
}

// DeleteBoard removes a board and, via cascade, its tasks. Admin only.
func (s *projectServiceImpl) DeleteBoard(ctx context.Context, actorID, boardID uuid.UUID) error {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !CanMutateProject(actor) {
		return response.NewAppError(response.ErrCodeForbidden, "Only admins can delete boards", "")
	}

	if err := s.projectRepo.DeleteBoard(ctx, boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete board", err.Error())
	}
	return nil
}

// findProject loads an active project or reports NotFound
func (s *projectServiceImpl) findProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load project", err.Error())
	}
	if !project.IsActive {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Project not found", "")
	}
	return project, nil
}

// findBoard loads a board or reports NotFound
func (s *projectServiceImpl) findBoard(ctx context.Context, boardID uuid.UUID) (*domain.Board, error) {
	board, err := s.projectRepo.FindBoardByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board", err.Error())
	}
	return board, nil
}

// updateProjectGauge refreshes the active-projects gauge; metric
// failures are silent
func (s *projectServiceImpl) updateProjectGauge(ctx context.Context) {
	count, err := s.projectRepo.CountActive(ctx)
	if err != nil {
		s.logger.Warn("Failed to count projects for metrics", zap.Error(err))
		return
	}
	s.metrics.SetProjectsTotal(count)
}
