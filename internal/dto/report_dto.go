package dto

import (
	"time"

	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
)

// ReportFilters narrows the report to a date range, project, user or
// status. All filters are optional and combine conjunctively.
type ReportFilters struct {
	From      *time.Time         `form:"from" time_format:"2006-01-02"`
	To        *time.Time         `form:"to" time_format:"2006-01-02"`
	ProjectID *uuid.UUID         `form:"projectId"`
	UserID    *uuid.UUID         `form:"userId"`
	Status    *domain.TaskStatus `form:"status"`
}

// ProjectCompletionResponse is the per-project completion rollup
type ProjectCompletionResponse struct {
	ProjectID      uuid.UUID `json:"projectId"`
	ProjectName    string    `json:"projectName"`
	TotalTasks     int       `json:"totalTasks"`
	CompletedTasks int       `json:"completedTasks"`
	CompletionRate float64   `json:"completionRate"`
}

// UserCompletionResponse is the per-user completed-task count. Included
// only for admin callers.
type UserCompletionResponse struct {
	UserID         uuid.UUID `json:"userId"`
	UserName       string    `json:"userName,omitempty"`
	CompletedTasks int       `json:"completedTasks"`
}

// ReportResponse is the full report over the caller's visible task set
type ReportResponse struct {
	TotalTasks     int                         `json:"totalTasks"`
	CompletedTasks int                         `json:"completedTasks"`
	OverdueTasks   int                         `json:"overdueTasks"`
	ByStatus       map[domain.TaskStatus]int   `json:"byStatus"`
	ByPriority     map[domain.TaskPriority]int `json:"byPriority"`
	Projects       []ProjectCompletionResponse `json:"projects"`
	Users          []UserCompletionResponse    `json:"users,omitempty"`
	Tasks          []TaskResponse              `json:"tasks"`
	GeneratedAt    time.Time                   `json:"generatedAt"`
}

// DashboardResponse is the landing-page rollup for the current user
type DashboardResponse struct {
	TotalTasks     int                       `json:"totalTasks"`
	CompletedTasks int                       `json:"completedTasks"`
	OverdueTasks   int                       `json:"overdueTasks"`
	ByStatus       map[domain.TaskStatus]int `json:"byStatus"`
	RecentTasks    []TaskResponse            `json:"recentTasks"`
	UnreadCount    int64                     `json:"unreadCount"`
}
