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
	"task-tracker-api/internal/metrics"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/response"
)

// Notifier receives task lifecycle events synchronously, right after
// the state change is persisted. Implementations must tolerate being
// called for events they do not care about.
type Notifier interface {
	OnTaskCreated(ctx context.Context, task *domain.Task) error
	OnTaskAssigned(ctx context.Context, task *domain.Task) error
	OnTaskStatusChanged(ctx context.Context, task *domain.Task, previousStatus domain.TaskStatus) error
}

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, actorID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, actorID, taskID uuid.UUID) (*dto.TaskResponse, error)
	GetBoardTasks(ctx context.Context, actorID, boardID uuid.UUID) ([]dto.TaskResponse, error)
	GetKanban(ctx context.Context, actorID, boardID uuid.UUID) (*dto.KanbanResponse, error)
	UpdateTask(ctx context.Context, actorID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	UpdateTaskStatus(ctx context.Context, actorID, taskID uuid.UUID, status domain.TaskStatus) (*dto.TaskResponse, error)
	UpdateTaskProgress(ctx context.Context, actorID, taskID uuid.UUID, progress int) (*dto.TaskResponse, error)
	UpdateTaskOrder(ctx context.Context, actorID, taskID uuid.UUID, order int) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error

	AddDependency(ctx context.Context, actorID, taskID, dependsOnID uuid.UUID) (*dto.TaskDependencyResponse, error)
	RemoveDependency(ctx context.Context, actorID, taskID, dependsOnID uuid.UUID) error
	GetDependencies(ctx context.Context, actorID, taskID uuid.UUID) ([]dto.TaskDependencyResponse, error)
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	metrics     *metrics.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// validateProgress rejects progress values outside [0,100]
func validateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return response.NewAppError(response.ErrCodeInvalidRange, "Progress must be between 0 and 100", "")
	}
	return nil
}

// validateTaskDates rejects a start date after the due date
func validateTaskDates(startDate, dueDate *time.Time) error {
	if startDate != nil && dueDate != nil && startDate.After(*dueDate) {
		return response.NewAppError(response.ErrCodeInvalidDateRange, "Start date cannot be after due date", "")
	}
	return nil
}

// normalizeStatusProgress couples the two lifecycle fields after
// validation. Completed status forces progress to 100; otherwise full
// progress forces completed status. Status wins when both change at
// once, so the outcome never depends on field ordering in the patch.
func normalizeStatusProgress(task *domain.Task) {
	if task.Status == domain.TaskStatusCompleted {
		task.Progress = 100
	} else if task.Progress == 100 {
		task.Status = domain.TaskStatusCompleted
	}
}

// CreateTask creates a new task on a board
func (s *taskServiceImpl) CreateTask(ctx context.Context, actorID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	board, err := s.projectRepo.FindBoardByID(ctx, req.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board", err.Error())
	}
	if board.Project == nil || !board.Project.IsActive {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
	}

	teamMemberIDs, err := s.projectTeamMembers(ctx, board.Project)
	if err != nil {
		return nil, err
	}
	if !CanCreateTaskOn(actor, board.Project, teamMemberIDs) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to create tasks on this board", "")
	}

	task := &domain.Task{
		BoardID:      board.ID,
		Title:        req.Title,
		Description:  req.Description,
		Notes:        req.Notes,
		Status:       domain.TaskStatusTodo,
		Priority:     domain.TaskPriorityMedium,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
		CreatedByID:  actor.ID,
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Progress != nil {
		task.Progress = *req.Progress
	}

	if !task.Status.IsValid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown task status", string(task.Status))
	}
	if !task.Priority.IsValid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown task priority", string(task.Priority))
	}
	if err := validateProgress(task.Progress); err != nil {
		return nil, err
	}
	if err := validateTaskDates(task.StartDate, task.DueDate); err != nil {
		return nil, err
	}
	normalizeStatusProgress(task)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	s.metrics.IncrementTaskCreated()
	if task.Status == domain.TaskStatusCompleted {
		s.metrics.IncrementTaskCompleted()
	}
	s.updateTaskGauge(ctx)

	created, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload task", err.Error())
	}

	// Notification failures never fail the mutation.
	if err := s.notifier.OnTaskCreated(ctx, created); err != nil {
		s.logger.Warn("Failed to emit task created notification",
			zap.String("task_id", created.ID.String()),
			zap.Error(err))
	}

	resp := dto.ToTaskResponse(created, s.now())
	return &resp, nil
}

// GetTask returns a single task if the caller may see it
func (s *taskServiceImpl) GetTask(ctx context.Context, actorID, taskID uuid.UUID) (*dto.TaskResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanViewTask(actor, task) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to view this task", "")
	}

	resp := dto.ToTaskResponse(task, s.now())
	return &resp, nil
}

// GetBoardTasks returns the board's tasks visible to the caller, in
// board order
func (s *taskServiceImpl) GetBoardTasks(ctx context.Context, actorID, boardID uuid.UUID) ([]dto.TaskResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindBoardByID(ctx, boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board", err.Error())
	}

	tasks, err := s.taskRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks", err.Error())
	}

	today := s.now()
	visible := VisibleTaskSet(actor, tasks)
	responses := make([]dto.TaskResponse, 0, len(visible))
	for _, task := range visible {
		responses = append(responses, dto.ToTaskResponse(task, today))
	}
	return responses, nil
}

// GetKanban returns the board's visible tasks grouped into status columns
func (s *taskServiceImpl) GetKanban(ctx context.Context, actorID, boardID uuid.UUID) (*dto.KanbanResponse, error) {
	tasks, err := s.GetBoardTasks(ctx, actorID, boardID)
	if err != nil {
		return nil, err
	}

	columns := []dto.KanbanColumnResponse{
		{Status: domain.TaskStatusTodo, Tasks: []dto.TaskResponse{}},
		{Status: domain.TaskStatusInProgress, Tasks: []dto.TaskResponse{}},
		{Status: domain.TaskStatusWaiting, Tasks: []dto.TaskResponse{}},
		{Status: domain.TaskStatusCompleted, Tasks: []dto.TaskResponse{}},
	}
	for _, task := range tasks {
		for i := range columns {
			if columns[i].Status == task.Status {
				columns[i].Tasks = append(columns[i].Tasks, task)
				break
			}
		}
	}

	return &dto.KanbanResponse{BoardID: boardID, Columns: columns}, nil
}

// UpdateTask applies a partial update to a task
func (s *taskServiceImpl) UpdateTask(ctx context.Context, actorID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTask(actor, task) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to modify this task", "")
	}

	previousStatus := task.Status
	previousAssignee := task.AssignedToID

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Progress != nil {
		task.Progress = *req.Progress
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.ClearDueDate {
		task.DueDate = nil
	}
	if req.AssignedToID != nil {
		task.AssignedToID = req.AssignedToID
	}
	if req.ClearAssignee {
		task.AssignedToID = nil
	}

	if !task.Status.IsValid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown task status", string(task.Status))
	}
	if !task.Priority.IsValid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown task priority", string(task.Priority))
	}
	if err := validateProgress(task.Progress); err != nil {
		return nil, err
	}
	if err := validateTaskDates(task.StartDate, task.DueDate); err != nil {
		return nil, err
	}
	normalizeStatusProgress(task)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
	}

	s.emitTaskEvents(ctx, task, previousStatus, previousAssignee)

	updated, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload task", err.Error())
	}

	resp := dto.ToTaskResponse(updated, s.now())
	return &resp, nil
}

// UpdateTaskStatus changes only the task's status
func (s *taskServiceImpl) UpdateTaskStatus(ctx context.Context, actorID, taskID uuid.UUID, status domain.TaskStatus) (*dto.TaskResponse, error) {
	if !status.IsValid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown task status", string(status))
	}
	return s.UpdateTask(ctx, actorID, taskID, &dto.UpdateTaskRequest{Status: &status})
}

// UpdateTaskProgress changes only the task's progress
func (s *taskServiceImpl) UpdateTaskProgress(ctx context.Context, actorID, taskID uuid.UUID, progress int) (*dto.TaskResponse, error) {
	if err := validateProgress(progress); err != nil {
		return nil, err
	}
	return s.UpdateTask(ctx, actorID, taskID, &dto.UpdateTaskRequest{Progress: &progress})
}

// UpdateTaskOrder repositions the task on its board
func (s *taskServiceImpl) UpdateTaskOrder(ctx context.Context, actorID, taskID uuid.UUID, order int) (*dto.TaskResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTask(actor, task) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to modify this task", "")
	}

	task.Order = order
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task order", err.Error())
	}

	resp := dto.ToTaskResponse(task, s.now())
	return &resp, nil
}

// DeleteTask removes a task; its notifications and dependency edges
// cascade with it
func (s *taskServiceImpl) DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !CanDeleteTask(actor, task) {
		return response.NewAppError(response.ErrCodeForbidden, "Not allowed to delete this task", "")
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task", err.Error())
	}

	s.updateTaskGauge(ctx)
	return nil
}

// AddDependency declares that taskID depends on dependsOnID
func (s *taskServiceImpl) AddDependency(ctx context.Context, actorID, taskID, dependsOnID uuid.UUID) (*dto.TaskDependencyResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	if taskID == dependsOnID {
		return nil, response.NewAppError(response.ErrCodeValidation, "A task cannot depend on itself", "")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanMutateTask(actor, task) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to modify this task", "")
	}

	dependsOn, err := s.findTask(ctx, dependsOnID)
	if err != nil {
		return nil, err
	}

	exists, err := s.taskRepo.DependencyExists(ctx, taskID, dependsOnID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check dependency", err.Error())
	}
	if exists {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Dependency already exists", "")
	}

	dep := &domain.TaskDependency{TaskID: taskID, DependsOnID: dependsOnID}
	if err := s.taskRepo.CreateDependency(ctx, dep); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create dependency", err.Error())
	}

	return &dto.TaskDependencyResponse{
		ID:             dep.ID,
		TaskID:         taskID,
		DependsOnID:    dependsOnID,
		DependsOnTitle: dependsOn.Title,
	}, nil
}

// RemoveDependency deletes a dependency edge
func (s *taskServiceImpl) RemoveDependency(ctx context.Context, actorID, taskID, dependsOnID uuid.UUID) error {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !CanMutateTask(actor, task) {
		return response.NewAppError(response.ErrCodeForbidden, "Not allowed to modify this task", "")
	}

	if err := s.taskRepo.DeleteDependency(ctx, taskID, dependsOnID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Dependency not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete dependency", err.Error())
	}
	return nil
}

// GetDependencies lists the tasks this task depends on
func (s *taskServiceImpl) GetDependencies(ctx context.Context, actorID, taskID uuid.UUID) ([]dto.TaskDependencyResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !CanViewTask(actor, task) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Not allowed to view this task", "")
	}

	deps, err := s.taskRepo.FindDependencies(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load dependencies", err.Error())
	}

	responses := make([]dto.TaskDependencyResponse, 0, len(deps))
	for _, dep := range deps {
		r := dto.TaskDependencyResponse{
			ID:          dep.ID,
			TaskID:      dep.TaskID,
			DependsOnID: dep.DependsOnID,
		}
		if dep.DependsOn != nil {
			r.DependsOnTitle = dep.DependsOn.Title
		}
		responses = append(responses, r)
	}
	return responses, nil
}

// findTask loads a task or translates the miss to a NotFound error
func (s *taskServiceImpl) findTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load task", err.Error())
	}
	return task, nil
}

// updateTaskGauge refreshes the tasks gauge; metric failures are
// silent
func (s *taskServiceImpl) updateTaskGauge(ctx context.Context) {
	count, err := s.taskRepo.Count(ctx)
	if err != nil {
		s.logger.Warn("Failed to count tasks for metrics", zap.Error(err))
		return
	}
	s.metrics.SetTasksTotal(count)
}

// projectTeamMembers returns the active member IDs of the project's
// team, or nil when the project has no team
func (s *taskServiceImpl) projectTeamMembers(ctx context.Context, project *domain.Project) ([]uuid.UUID, error) {
	if project.TeamID == nil {
		return nil, nil
	}
	ids, err := s.teamRepo.ActiveMemberIDs(ctx, *project.TeamID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load team members", err.Error())
	}
	return ids, nil
}

// emitTaskEvents fires the post-persistence notifications for an
// update. Failures are logged and never surfaced to the caller.
func (s *taskServiceImpl) emitTaskEvents(ctx context.Context, task *domain.Task, previousStatus domain.TaskStatus, previousAssignee *uuid.UUID) {
	if task.Status != previousStatus {
		if task.Status == domain.TaskStatusCompleted {
			s.metrics.IncrementTaskCompleted()
		}
		if err := s.notifier.OnTaskStatusChanged(ctx, task, previousStatus); err != nil {
			s.logger.Warn("Failed to emit status change notification",
				zap.String("task_id", task.ID.String()),
				zap.Error(err))
		}
	}

	assigneeChanged := (task.AssignedToID == nil) != (previousAssignee == nil) ||
		(task.AssignedToID != nil && previousAssignee != nil && *task.AssignedToID != *previousAssignee)
	if assigneeChanged && task.AssignedToID != nil {
		if err := s.notifier.OnTaskAssigned(ctx, task); err != nil {
			s.logger.Warn("Failed to emit assignment notification",
				zap.String("task_id", task.ID.String()),
				zap.Error(err))
		}
	}
}
