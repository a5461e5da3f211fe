package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
)

// TaskFilter narrows task queries for reports and dashboards. Nil
// fields impose no constraint; VisibleTo limits the set to tasks
// assigned to that user (nil for admin, who sees everything).
type TaskFilter struct {
	From      *time.Time
	To        *time.Time
	ProjectID *uuid.UUID
	UserID    *uuid.UUID
	Status    *domain.TaskStatus
	VisibleTo *uuid.UUID
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	FindFiltered(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	FindDueForOverdueScan(ctx context.Context, today time.Time) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	CreateDependency(ctx context.Context, dep *domain.TaskDependency) error
	DeleteDependency(ctx context.Context, taskID, dependsOnID uuid.UUID) error
	FindDependencies(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskDependency, error)
	DependencyExists(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error)
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Create creates a new task
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task with its board, project and user relations preloaded
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Board").
		Preload("Board.Project").
		Preload("AssignedTo").
		Preload("CreatedBy").
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByBoardID returns a board's tasks in manual order, then newest first
func (r *taskRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Where("board_id = ?", boardID).
		Order("task_order ASC, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindFiltered applies the conjunctive filter set and returns matching
// tasks with project relations preloaded for aggregation
func (r *taskRepositoryImpl) FindFiltered(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Preload("Board").
		Preload("Board.Project").
		Preload("AssignedTo").
		Preload("CreatedBy")

	if filter.VisibleTo != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.VisibleTo)
	}
	if filter.From != nil {
		query = query.Where("tasks.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("tasks.created_at <= ?", *filter.To)
	}
	if filter.ProjectID != nil {
		query = query.
			Joins("JOIN boards ON boards.id = tasks.board_id").
			Where("boards.project_id = ?", *filter.ProjectID)
	}
	if filter.UserID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var tasks []*domain.Task
	if err := query.Order("tasks.created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindDueForOverdueScan returns open tasks whose due date has arrived
// or passed. Tasks due today are included so the daily scan alerts on
// the due day itself.
func (r *taskRepositoryImpl) FindDueForOverdueScan(ctx context.Context, today time.Time) ([]*domain.Task, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("CreatedBy").
		Where("due_date IS NOT NULL AND due_date <= ?", day).
		Where("status IN ?", []domain.TaskStatus{domain.TaskStatusTodo, domain.TaskStatusInProgress}).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves task changes
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a task; dependencies and notifications cascade
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count counts all tasks
func (r *taskRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Count(&count).Error
	return count, err
}

// CreateDependency inserts a dependency edge
func (r *taskRepositoryImpl) CreateDependency(ctx context.Context, dep *domain.TaskDependency) error {
	if dep.ID == uuid.Nil {
		dep.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(dep).Error
}

// DeleteDependency removes a dependency edge by pair
func (r *taskRepositoryImpl) DeleteDependency(ctx context.Context, taskID, dependsOnID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND depends_on_id = ?", taskID, dependsOnID).
		Delete(&domain.TaskDependency{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindDependencies returns the edges where the task is the dependent side
func (r *taskRepositoryImpl) FindDependencies(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskDependency, error) {
	var deps []*domain.TaskDependency
	if err := r.db.WithContext(ctx).
		Preload("DependsOn").
		Where("task_id = ?", taskID).
		Find(&deps).Error; err != nil {
		return nil, err
	}
	return deps, nil
}

// DependencyExists reports whether the exact edge already exists
func (r *taskRepositoryImpl) DependencyExists(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.TaskDependency{}).
		Where("task_id = ? AND depends_on_id = ?", taskID, dependsOnID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
