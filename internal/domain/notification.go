package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType represents the kind of event a notification records
type NotificationType string

const (
	NotificationOverdue   NotificationType = "overdue"
	NotificationDueSoon   NotificationType = "due_soon"
	NotificationAssigned  NotificationType = "assigned"
	NotificationCompleted NotificationType = "completed"
	NotificationSystem    NotificationType = "system"
)

// Notification is a user-scoped event record. Created only by the
// system; the only mutation after creation is the unread-to-read flip.
type Notification struct {
	BaseModel
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_user_id" json:"user_id"`
	Type    NotificationType `gorm:"type:varchar(20);not null;index:idx_notifications_type" json:"type"`
	Title   string           `gorm:"type:varchar(200);not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`
	TaskID  *uuid.UUID       `gorm:"type:uuid;index:idx_notifications_task_id" json:"task_id,omitempty"`
	IsRead  bool             `gorm:"default:false;index:idx_notifications_is_read" json:"is_read"`
	ReadAt  *time.Time       `gorm:"type:timestamp" json:"read_at,omitempty"`
	User    *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Task    *Task            `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
