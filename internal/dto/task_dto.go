package dto

import (
	"time"

	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
)

// CreateTaskRequest represents the request to create a new task
// @Description Request body for creating a task on a board
// @Description status defaults to todo and priority to medium when omitted
type CreateTaskRequest struct {
	BoardID      uuid.UUID            `json:"boardId" binding:"required" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Title        string               `json:"title" binding:"required,min=1,max=200" example:"Prepare quarterly review"`
	Description  string               `json:"description" binding:"max=2000"`
	Notes        string               `json:"notes" binding:"max=2000"`
	Status       *domain.TaskStatus   `json:"status,omitempty" example:"todo"`
	Priority     *domain.TaskPriority `json:"priority,omitempty" example:"medium"`
	Progress     *int                 `json:"progress,omitempty" example:"0"`
	StartDate    *time.Time           `json:"startDate,omitempty" example:"2025-01-01T00:00:00Z"`
	DueDate      *time.Time           `json:"dueDate,omitempty" example:"2025-01-31T00:00:00Z"`
	AssignedToID *uuid.UUID           `json:"assignedToId,omitempty"`
}

// UpdateTaskRequest represents the request to update a task. All fields
// are optional; nil fields are left untouched.
type UpdateTaskRequest struct {
	Title         *string              `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string              `json:"description" binding:"omitempty,max=2000"`
	Notes         *string              `json:"notes" binding:"omitempty,max=2000"`
	Status        *domain.TaskStatus   `json:"status,omitempty"`
	Priority      *domain.TaskPriority `json:"priority,omitempty"`
	Progress      *int                 `json:"progress,omitempty"`
	StartDate     *time.Time           `json:"startDate,omitempty"`
	DueDate       *time.Time           `json:"dueDate,omitempty"`
	AssignedToID  *uuid.UUID           `json:"assignedToId,omitempty"`
	ClearDueDate  bool                 `json:"clearDueDate,omitempty"`
	ClearAssignee bool                 `json:"clearAssignee,omitempty"`
}

// UpdateTaskStatusRequest represents the request to change a task's status
type UpdateTaskStatusRequest struct {
	Status domain.TaskStatus `json:"status" binding:"required" example:"in_progress"`
}

// UpdateTaskProgressRequest represents the request to change a task's progress
type UpdateTaskProgressRequest struct {
	Progress *int `json:"progress" binding:"required" example:"50"`
}

// UpdateTaskOrderRequest represents the request to reposition a task on its board
type UpdateTaskOrderRequest struct {
	Order int `json:"order" binding:"min=0" example:"3"`
}

// CreateTaskDependencyRequest represents the request to declare that a
// task depends on another
type CreateTaskDependencyRequest struct {
	DependsOnID uuid.UUID `json:"dependsOnId" binding:"required"`
}

// TaskResponse represents the task response
type TaskResponse struct {
	ID             uuid.UUID           `json:"taskId"`
	BoardID        uuid.UUID           `json:"boardId"`
	ProjectID      *uuid.UUID          `json:"projectId,omitempty"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Notes          string              `json:"notes"`
	Status         domain.TaskStatus   `json:"status"`
	Priority       domain.TaskPriority `json:"priority"`
	Progress       int                 `json:"progress"`
	StartDate      *time.Time          `json:"startDate,omitempty"`
	DueDate        *time.Time          `json:"dueDate,omitempty"`
	AssignedToID   *uuid.UUID          `json:"assignedToId,omitempty"`
	AssignedToName string              `json:"assignedToName,omitempty"`
	CreatedByID    uuid.UUID           `json:"createdById"`
	CreatedByName  string              `json:"createdByName,omitempty"`
	Order          int                 `json:"order"`
	IsOverdue      bool                `json:"isOverdue"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// TaskDependencyResponse represents a dependency edge of a task
type TaskDependencyResponse struct {
	ID             uuid.UUID `json:"dependencyId"`
	TaskID         uuid.UUID `json:"taskId"`
	DependsOnID    uuid.UUID `json:"dependsOnId"`
	DependsOnTitle string    `json:"dependsOnTitle,omitempty"`
}

// KanbanColumnResponse is one status column of a board's kanban view
type KanbanColumnResponse struct {
	Status domain.TaskStatus `json:"status"`
	Tasks  []TaskResponse    `json:"tasks"`
}

// KanbanResponse is the board's tasks grouped by lifecycle status
type KanbanResponse struct {
	BoardID uuid.UUID              `json:"boardId"`
	Columns []KanbanColumnResponse `json:"columns"`
}

// ToTaskResponse converts a domain task to its response form. The
// overdue flag is recomputed against today, never read from storage.
func ToTaskResponse(task *domain.Task, today time.Time) TaskResponse {
	resp := TaskResponse{
		ID:           task.ID,
		BoardID:      task.BoardID,
		Title:        task.Title,
		Description:  task.Description,
		Notes:        task.Notes,
		Status:       task.Status,
		Priority:     task.Priority,
		Progress:     task.Progress,
		StartDate:    task.StartDate,
		DueDate:      task.DueDate,
		AssignedToID: task.AssignedToID,
		CreatedByID:  task.CreatedByID,
		Order:        task.Order,
		IsOverdue:    task.IsOverdue(today),
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
	if task.Board != nil {
		resp.ProjectID = &task.Board.ProjectID
	}
	if task.AssignedTo != nil {
		resp.AssignedToName = task.AssignedTo.DisplayName()
	}
	if task.CreatedBy != nil {
		resp.CreatedByName = task.CreatedBy.DisplayName()
	}
	return resp
}
