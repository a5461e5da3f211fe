package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusWaiting    TaskStatus = "waiting"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the known lifecycle states
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusWaiting, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid reports whether the priority is one of the known levels
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is the central entity of the tracker
type Task struct {
	BaseModel
	BoardID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_board_id" json:"board_id"`
	Title        string       `gorm:"type:varchar(200);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Notes        string       `gorm:"type:text" json:"notes"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index:idx_tasks_status" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Progress     int          `gorm:"not null;default:0" json:"progress"`
	StartDate    *time.Time   `gorm:"type:date" json:"start_date,omitempty"`
	DueDate      *time.Time   `gorm:"type:date;index:idx_tasks_due_date" json:"due_date,omitempty"`
	AssignedToID *uuid.UUID   `gorm:"type:uuid;index:idx_tasks_assigned_to" json:"assigned_to_id,omitempty"`
	CreatedByID  uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_created_by" json:"created_by_id"`
	Order        int          `gorm:"column:task_order;not null;default:0" json:"order"`
	Board        *Board       `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
	AssignedTo   *User        `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
	CreatedBy    *User        `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// IsOverdue reports whether the task's due date has passed while the
// task is not completed. A task due today is not overdue.
// Every overdue decision in the system goes through this predicate.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Status == TaskStatusCompleted {
		return false
	}
	due := dateOnly(*t.DueDate)
	return due.Before(dateOnly(today))
}

// IsAssignedTo reports whether the task is assigned to the given user
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TaskDependency is a declarative edge: Task depends on DependsOn.
// The pair is unique; no cycle prevention or scheduling effect is implied.
type TaskDependency struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_task_dependencies_pair,priority:1;index:idx_task_dependencies_task" json:"task_id"`
	DependsOnID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_task_dependencies_pair,priority:2" json:"depends_on_id"`
	Task        *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
	DependsOn   *Task     `gorm:"foreignKey:DependsOnID;constraint:OnDelete:CASCADE" json:"depends_on,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// TableName specifies the table name for TaskDependency
func (TaskDependency) TableName() string {
	return "task_dependencies"
}
