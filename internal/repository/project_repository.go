package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
)

// ProjectRepository defines the interface for project and board data access
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByName(ctx context.Context, name string) (*domain.Project, error)
	FindActive(ctx context.Context) ([]*domain.Project, error)
	FindVisibleToUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (int64, error)
	HasAssignedTask(ctx context.Context, projectID, userID uuid.UUID) (bool, error)

	CreateBoard(ctx context.Context, board *domain.Board) error
	FindBoardByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindBoardsByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error)
	UpdateBoard(ctx context.Context, board *domain.Board) error
	DeleteBoard(ctx context.Context, id uuid.UUID) error
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Create creates a new project
func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID finds a project by its ID with boards preloaded
func (r *projectRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).
		Preload("Boards").
		First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByName finds an active project by exact name
func (r *projectRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).
		First(&project, "name = ? AND is_active = ?", name, true).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindActive returns all active projects, newest first
func (r *projectRepositoryImpl) FindActive(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindVisibleToUser returns active projects the user created or has an
// assigned task in
func (r *projectRepositoryImpl) FindVisibleToUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).
		Distinct("projects.*").
		Joins("LEFT JOIN boards ON boards.project_id = projects.id").
		Joins("LEFT JOIN tasks ON tasks.board_id = boards.id").
		Where("projects.is_active = ?", true).
		Where("projects.created_by_id = ? OR tasks.assigned_to_id = ?", userID, userID).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update saves project changes
func (r *projectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// SoftDelete flips is_active off; rows are never physically removed
func (r *projectRepositoryImpl) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Project{}).
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

// CountActive counts active projects
func (r *projectRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// HasAssignedTask reports whether the user has any task assigned within
// the project's boards
func (r *projectRepositoryImpl) HasAssignedTask(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Joins("JOIN boards ON boards.id = tasks.board_id").
		Where("boards.project_id = ? AND tasks.assigned_to_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateBoard creates a new board
func (r *projectRepositoryImpl) CreateBoard(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// FindBoardByID finds a board by its ID with the owning project preloaded
func (r *projectRepositoryImpl) FindBoardByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).
		Preload("Project").
		First(&board, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindBoardsByProjectID returns the project's boards, oldest first
func (r *projectRepositoryImpl) FindBoardsByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error) {
	var boards []*domain.Board
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// UpdateBoard saves board changes
func (r *projectRepositoryImpl) UpdateBoard(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// DeleteBoard removes a board; tasks cascade with it
func (r *projectRepositoryImpl) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Board{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
