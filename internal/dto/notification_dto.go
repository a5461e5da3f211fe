package dto

import (
	"time"

	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
)

// NotificationResponse represents one notification of the current user
type NotificationResponse struct {
	ID        uuid.UUID               `json:"notificationId"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	TaskID    *uuid.UUID              `json:"taskId,omitempty"`
	IsRead    bool                    `json:"isRead"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

// PaginatedNotificationsResponse represents a page of notifications
type PaginatedNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// NotificationCountsResponse carries the badge counters for a user
type NotificationCountsResponse struct {
	Unread        int64 `json:"unread"`
	UnreadOverdue int64 `json:"unreadOverdue"`
}

// MarkAllReadResponse reports how many notifications were flipped
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// OverdueScanResponse reports the outcome of one overdue scan run
type OverdueScanResponse struct {
	TasksScanned         int `json:"tasksScanned"`
	NotificationsCreated int `json:"notificationsCreated"`
}

// ToNotificationResponse converts a domain notification to its response form
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		TaskID:    n.TaskID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
