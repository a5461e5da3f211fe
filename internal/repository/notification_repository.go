package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error
	FindByUser(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) ([]*domain.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	OverdueCount(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateOverdueIfAbsent(ctx context.Context, taskID uuid.UUID, notifications []*domain.Notification) (int, error)
}

// notificationRepositoryImpl is the GORM implementation of NotificationRepository
type notificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

// Create creates a single notification
func (r *notificationRepositoryImpl) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// CreateBatch creates multiple notifications at once
func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

// FindByUser returns the user's notifications, newest first, with the
// total count for pagination
func (r *notificationRepositoryImpl) FindByUser(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) ([]*domain.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ?", userID)

	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var notifications []*domain.Notification
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkRead flips a single notification to read. Returns
// gorm.ErrRecordNotFound when the notification does not exist for that
// user.
func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var notification domain.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkAllRead flips all unread notifications for the user. Zero matches
// is not an error.
func (r *notificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

// UnreadCount counts the user's unread notifications
func (r *notificationRepositoryImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// OverdueCount counts the user's unread overdue notifications
func (r *notificationRepositoryImpl) OverdueCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND type = ? AND is_read = ?", userID, domain.NotificationOverdue, false).
		Count(&count).Error
	return count, err
}

// CreateOverdueIfAbsent inserts the task's overdue notifications unless
// an unread overdue notification already exists for that task. The
// check and insert run in one transaction so two concurrent scans
// cannot double-notify the same task.
func (r *notificationRepositoryImpl) CreateOverdueIfAbsent(ctx context.Context, taskID uuid.UUID, notifications []*domain.Notification) (int, error) {
	if len(notifications) == 0 {
		return 0, nil
	}

	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Notification{}).
			Where("task_id = ? AND type = ? AND is_read = ?", taskID, domain.NotificationOverdue, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err := tx.Create(&notifications).Error; err != nil {
			return err
		}
		created = len(notifications)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
