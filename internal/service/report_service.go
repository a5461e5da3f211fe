package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/repository"
	"task-tracker-api/internal/response"
)

// ReportService defines the interface for aggregation over the
// caller's visible task set
type ReportService interface {
	BuildReport(ctx context.Context, actorID uuid.UUID, filters *dto.ReportFilters) (*dto.ReportResponse, error)
	GetDashboard(ctx context.Context, actorID uuid.UUID) (*dto.DashboardResponse, error)
}

// reportServiceImpl is the implementation of ReportService
type reportServiceImpl struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService creates a new instance of ReportService
func NewReportService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	logger *zap.Logger,
) ReportService {
	return &reportServiceImpl{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// completionRate is completed/total*100 rounded to one decimal, 0 for
// an empty set
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// BuildReport aggregates the caller's visible tasks under the given
// filters. All filters combine conjunctively; omitted filters impose no
// constraint. Members only ever aggregate over their assigned tasks.
func (s *reportServiceImpl) BuildReport(ctx context.Context, actorID uuid.UUID, filters *dto.ReportFilters) (*dto.ReportResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		filters = &dto.ReportFilters{}
	}
	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, response.NewAppError(response.ErrCodeInvalidDateRange, "Report start date cannot be after end date", "")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Unknown task status", string(*filters.Status))
	}

	repoFilter := repository.TaskFilter{
		From:      filters.From,
		ProjectID: filters.ProjectID,
		UserID:    filters.UserID,
		Status:    filters.Status,
	}
	if filters.To != nil {
		// The To date is inclusive: stretch it to the end of its day.
		end := filters.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		repoFilter.To = &end
	}
	if !actor.IsAdmin() {
		repoFilter.VisibleTo = &actor.ID
	}

	tasks, err := s.taskRepo.FindFiltered(ctx, repoFilter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks", err.Error())
	}

	today := s.now()
	report := &dto.ReportResponse{
		ByStatus:    map[domain.TaskStatus]int{},
		ByPriority:  map[domain.TaskPriority]int{},
		GeneratedAt: today,
	}

	type projectAgg struct {
		id        uuid.UUID
		name      string
		total     int
		completed int
	}
	projects := map[uuid.UUID]*projectAgg{}
	completedByUser := map[uuid.UUID]int{}

	for _, task := range tasks {
		report.TotalTasks++
		report.ByStatus[task.Status]++
		report.ByPriority[task.Priority]++
		// Overdue is always the live predicate, never a stored flag,
		// regardless of any status filter applied above.
		if task.IsOverdue(today) {
			report.OverdueTasks++
		}

		completed := task.Status == domain.TaskStatusCompleted
		if completed {
			report.CompletedTasks++
			if task.AssignedToID != nil {
				completedByUser[*task.AssignedToID]++
			}
		}

		if task.Board != nil && task.Board.Project != nil {
			p := task.Board.Project
			agg, ok := projects[p.ID]
			if !ok {
				agg = &projectAgg{id: p.ID, name: p.Name}
				projects[p.ID] = agg
			}
			agg.total++
			if completed {
				agg.completed++
			}
		}

		report.Tasks = append(report.Tasks, dto.ToTaskResponse(task, today))
	}

	for _, agg := range projects {
		report.Projects = append(report.Projects, dto.ProjectCompletionResponse{
			ProjectID:      agg.id,
			ProjectName:    agg.name,
			TotalTasks:     agg.total,
			CompletedTasks: agg.completed,
			CompletionRate: completionRate(agg.completed, agg.total),
		})
	}
	sort.Slice(report.Projects, func(i, j int) bool {
		return report.Projects[i].ProjectName < report.Projects[j].ProjectName
	})

	// Per-user completed counts are an admin-only view.
	if actor.IsAdmin() && len(completedByUser) > 0 {
		ids := make([]uuid.UUID, 0, len(completedByUser))
		for id := range completedByUser {
			ids = append(ids, id)
		}
		users, err := s.userRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load users", err.Error())
		}
		names := make(map[uuid.UUID]string, len(users))
		for _, user := range users {
			names[user.ID] = user.DisplayName()
		}
		for id, count := range completedByUser {
			report.Users = append(report.Users, dto.UserCompletionResponse{
				UserID:         id,
				UserName:       names[id],
				CompletedTasks: count,
			})
		}
		sort.Slice(report.Users, func(i, j int) bool {
			if report.Users[i].CompletedTasks != report.Users[j].CompletedTasks {
				return report.Users[i].CompletedTasks > report.Users[j].CompletedTasks
			}
			return report.Users[i].UserName < report.Users[j].UserName
		})
	}

	return report, nil
}

// GetDashboard builds the landing-page rollup: counts over the
// caller's visible tasks plus the most recent five and the unread badge
func (s *reportServiceImpl) GetDashboard(ctx context.Context, actorID uuid.UUID) (*dto.DashboardResponse, error) {
	actor, err := loadActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}

	filter := repository.TaskFilter{}
	if !actor.IsAdmin() {
		filter.VisibleTo = &actor.ID
	}
	tasks, err := s.taskRepo.FindFiltered(ctx, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks", err.Error())
	}

	today := s.now()
	dashboard := &dto.DashboardResponse{
		ByStatus: map[domain.TaskStatus]int{},
	}
	for _, task := range tasks {
		dashboard.TotalTasks++
		dashboard.ByStatus[task.Status]++
		if task.Status == domain.TaskStatusCompleted {
			dashboard.CompletedTasks++
		}
		if task.IsOverdue(today) {
			dashboard.OverdueTasks++
		}
	}

	// FindFiltered returns newest first.
	recent := tasks
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, task := range recent {
		dashboard.RecentTasks = append(dashboard.RecentTasks, dto.ToTaskResponse(task, today))
	}

	unread, err := s.notifRepo.UnreadCount(ctx, actorID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count notifications", err.Error())
	}
	dashboard.UnreadCount = unread

	return dashboard, nil
}
