package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"task-tracker-api/internal/service"
)

// Scheduler runs the periodic overdue scan. The scan itself is
// idempotent, so overlapping or repeated runs are harmless.
type Scheduler struct {
	cron          *cron.Cron
	notifications service.NotificationService
	logger        *zap.Logger
}

// NewScheduler creates a scheduler that is not yet running
func NewScheduler(notifications service.NotificationService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		notifications: notifications,
		logger:        logger,
	}
}

// Start registers the overdue scan under the given 5-field cron spec
// and starts the scheduler
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOverdueScan); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("overdue_scan_spec", spec))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runOverdueScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.notifications.ScanOverdue(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("Overdue scan failed", zap.Error(err))
		return
	}
	s.logger.Info("Scheduled overdue scan completed",
		zap.Int("tasks_scanned", result.TasksScanned),
		zap.Int("notifications_created", result.NotificationsCreated))
}
