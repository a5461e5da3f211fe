package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker-api/internal/config"
	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/metrics"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/response"
)

// NotificationService defines the interface for notification business
// logic. It doubles as the Notifier consumed by the task service.
type NotificationService interface {
	Notifier

	GetNotifications(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) (*dto.PaginatedNotificationsResponse, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkAllReadResponse, error)
	GetCounts(ctx context.Context, userID uuid.UUID) (*dto.NotificationCountsResponse, error)
	ScanOverdue(ctx context.Context, today time.Time) (*dto.OverdueScanResponse, error)
}

// notificationServiceImpl is the implementation of NotificationService
type notificationServiceImpl struct {
	notifRepo repository.NotificationRepository
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	redis     *redis.Client
	config    *config.Config
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewNotificationService creates a new instance of NotificationService.
// The redis client is optional; a nil client disables count caching and
// event publishing but never affects correctness.
func NewNotificationService(
	notifRepo repository.NotificationRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notifRepo: notifRepo,
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		redis:     redisClient,
		config:    cfg,
		metrics:   m,
		logger:    logger,
	}
}

// OnTaskCreated notifies the assignee when a task is created already
// assigned to someone other than its creator
func (s *notificationServiceImpl) OnTaskCreated(ctx context.Context, task *domain.Task) error {
	return s.OnTaskAssigned(ctx, task)
}

// OnTaskAssigned notifies the assignee of a task assignment. Tasks
// assigned to their own creator produce nothing.
func (s *notificationServiceImpl) OnTaskAssigned(ctx context.Context, task *domain.Task) error {
	if task.AssignedToID == nil || *task.AssignedToID == task.CreatedByID {
		return nil
	}

	taskID := task.ID
	notification := &domain.Notification{
		UserID:  *task.AssignedToID,
		Type:    domain.NotificationAssigned,
		Title:   "New task assigned",
		Message: fmt.Sprintf("You have been assigned the task '%s'", task.Title),
		TaskID:  &taskID,
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		return err
	}

	s.metrics.IncrementNotificationCreated(string(domain.NotificationAssigned))
	s.publishNotification(ctx, notification)
	s.invalidateCountCache(ctx, notification.UserID)
	return nil
}

// OnTaskStatusChanged notifies the creator when someone else completes
// their task. The assignee is named in the message, or "Someone" when
// the task was completed unassigned.
func (s *notificationServiceImpl) OnTaskStatusChanged(ctx context.Context, task *domain.Task, previousStatus domain.TaskStatus) error {
	if task.Status != domain.TaskStatusCompleted || previousStatus == domain.TaskStatusCompleted {
		return nil
	}
	if task.AssignedToID != nil && *task.AssignedToID == task.CreatedByID {
		return nil
	}

	completedBy := "Someone"
	if task.AssignedToID != nil {
		if assignee, err := s.userRepo.FindByID(ctx, *task.AssignedToID); err == nil {
			completedBy = assignee.DisplayName()
		}
	}

	taskID := task.ID
	notification := &domain.Notification{
		UserID:  task.CreatedByID,
		Type:    domain.NotificationCompleted,
		Title:   "Task completed",
		Message: fmt.Sprintf("%s completed the task '%s'", completedBy, task.Title),
		TaskID:  &taskID,
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		return err
	}

	s.metrics.IncrementNotificationCreated(string(domain.NotificationCompleted))
	s.publishNotification(ctx, notification)
	s.invalidateCountCache(ctx, notification.UserID)
	return nil
}

// ScanOverdue walks every open task whose due date has arrived and
// notifies the assignee and the creator, once per task. A task that
// already carries an unread overdue notification is skipped, so
// repeated or concurrent scans never double-alert. A failure on one
// task is logged and does not stop the batch.
func (s *notificationServiceImpl) ScanOverdue(ctx context.Context, today time.Time) (*dto.OverdueScanResponse, error) {
	tasks, err := s.taskRepo.FindDueForOverdueScan(ctx, today)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load overdue candidates", err.Error())
	}

	created := 0
	for _, task := range tasks {
		notifications := s.buildOverdueNotifications(task)
		n, err := s.notifRepo.CreateOverdueIfAbsent(ctx, task.ID, notifications)
		if err != nil {
			s.logger.Error("Failed to create overdue notifications",
				zap.String("task_id", task.ID.String()),
				zap.Error(err))
			continue
		}
		if n > 0 {
			created += n
			for _, notification := range notifications {
				s.metrics.IncrementNotificationCreated(string(domain.NotificationOverdue))
				s.publishNotification(ctx, notification)
				s.invalidateCountCache(ctx, notification.UserID)
			}
		}
	}

	s.metrics.RecordOverdueScan(created)
	s.logger.Info("Overdue scan finished",
		zap.Int("tasks_scanned", len(tasks)),
		zap.Int("notifications_created", created))

	return &dto.OverdueScanResponse{
		TasksScanned:         len(tasks),
		NotificationsCreated: created,
	}, nil
}

// buildOverdueNotifications builds the recipients for one overdue
// task: the assignee when set, plus the creator when different
func (s *notificationServiceImpl) buildOverdueNotifications(task *domain.Task) []*domain.Notification {
	dueOn := ""
	if task.DueDate != nil {
		dueOn = task.DueDate.Format("2006-01-02")
	}
	message := fmt.Sprintf("The task '%s' is overdue (due %s)", task.Title, dueOn)

	recipients := make([]uuid.UUID, 0, 2)
	if task.AssignedToID != nil {
		recipients = append(recipients, *task.AssignedToID)
	}
	if task.AssignedToID == nil || *task.AssignedToID != task.CreatedByID {
		recipients = append(recipients, task.CreatedByID)
	}

	taskID := task.ID
	notifications := make([]*domain.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, &domain.Notification{
			UserID:  userID,
			Type:    domain.NotificationOverdue,
			Title:   "Task overdue",
			Message: message,
			TaskID:  &taskID,
		})
	}
	return notifications
}

// GetNotifications returns a page of the user's notifications
func (s *notificationServiceImpl) GetNotifications(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) (*dto.PaginatedNotificationsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.notifRepo.FindByUser(ctx, userID, page, limit, unreadOnly)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load notifications", err.Error())
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, dto.ToNotificationResponse(n))
	}

	return &dto.PaginatedNotificationsResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		Limit:         limit,
	}, nil
}

// MarkRead flips one notification to read. NotFound when it does not
// exist or belongs to another user.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id, userID uuid.UUID) (*dto.NotificationResponse, error) {
	notification, err := s.notifRepo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Notification not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to mark notification read", err.Error())
	}

	s.invalidateCountCache(ctx, userID)

	resp := dto.ToNotificationResponse(notification)
	return &resp, nil
}

// MarkAllRead flips every unread notification of the user. Idempotent;
// zero matches still succeeds.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkAllReadResponse, error) {
	updated, err := s.notifRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to mark notifications read", err.Error())
	}

	s.invalidateCountCache(ctx, userID)

	return &dto.MarkAllReadResponse{Updated: updated}, nil
}

// GetCounts returns the badge counters for the user. Counts are cached
// briefly in redis; every write path invalidates, so a served value is
// never stale.
func (s *notificationServiceImpl) GetCounts(ctx context.Context, userID uuid.UUID) (*dto.NotificationCountsResponse, error) {
	cacheKey := fmt.Sprintf("noti:counts:%s", userID.String())

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var counts dto.NotificationCountsResponse
			if err := json.Unmarshal([]byte(cached), &counts); err == nil {
				return &counts, nil
			}
		}
	}

	unread, err := s.notifRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count notifications", err.Error())
	}
	overdue, err := s.notifRepo.OverdueCount(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count notifications", err.Error())
	}

	counts := &dto.NotificationCountsResponse{
		Unread:        unread,
		UnreadOverdue: overdue,
	}

	if s.redis != nil {
		if data, err := json.Marshal(counts); err == nil {
			ttl := time.Duration(s.config.App.CacheCountTTL) * time.Second
			s.redis.Set(ctx, cacheKey, data, ttl)
		}
	}

	return counts, nil
}

// publishNotification pushes the notification onto the user's redis
// channel for live listeners
func (s *notificationServiceImpl) publishNotification(ctx context.Context, notification *domain.Notification) {
	if s.redis == nil {
		return
	}

	channel := fmt.Sprintf("notifications:user:%s", notification.UserID.String())
	data, err := json.Marshal(notification)
	if err != nil {
		s.logger.Error("Failed to marshal notification for publish", zap.Error(err))
		return
	}
	if err := s.redis.Publish(ctx, channel, data).Err(); err != nil {
		s.logger.Error("Failed to publish notification", zap.Error(err))
	}
}

func (s *notificationServiceImpl) invalidateCountCache(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}

	cacheKey := fmt.Sprintf("noti:counts:%s", userID.String())
	if err := s.redis.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("Failed to invalidate count cache", zap.Error(err))
	}
}
