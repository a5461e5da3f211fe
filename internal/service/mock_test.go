package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	FindByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByIDsFunc  func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	FindActiveFunc func(ctx context.Context) ([]*domain.User, error)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockUserRepository) FindActive(ctx context.Context) ([]*domain.User, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx)
	}
	return nil, nil
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	CreateFunc                func(ctx context.Context, project *domain.Project) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByNameFunc            func(ctx context.Context, name string) (*domain.Project, error)
	FindActiveFunc            func(ctx context.Context) ([]*domain.Project, error)
	FindVisibleToUserFunc     func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	UpdateFunc                func(ctx context.Context, project *domain.Project) error
	SoftDeleteFunc            func(ctx context.Context, id uuid.UUID) error
	CountActiveFunc           func(ctx context.Context) (int64, error)
	HasAssignedTaskFunc       func(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	CreateBoardFunc           func(ctx context.Context, board *domain.Board) error
	FindBoardByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindBoardsByProjectIDFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error)
	UpdateBoardFunc           func(ctx context.Context, board *domain.Board) error
	DeleteBoardFunc           func(ctx context.Context, id uuid.UUID) error
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindByName(ctx context.Context, name string) (*domain.Project, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindActive(ctx context.Context) ([]*domain.Project, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindVisibleToUser(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	if m.FindVisibleToUserFunc != nil {
		return m.FindVisibleToUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProjectRepository) CountActive(ctx context.Context) (int64, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx)
	}
	return 0, nil
}

func (m *MockProjectRepository) HasAssignedTask(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	if m.HasAssignedTaskFunc != nil {
		return m.HasAssignedTaskFunc(ctx, projectID, userID)
	}
	return false, nil
}

func (m *MockProjectRepository) CreateBoard(ctx context.Context, board *domain.Board) error {
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(ctx, board)
	}
	return nil
}

func (m *MockProjectRepository) FindBoardByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindBoardByIDFunc != nil {
		return m.FindBoardByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindBoardsByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Board, error) {
	if m.FindBoardsByProjectIDFunc != nil {
		return m.FindBoardsByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockProjectRepository) UpdateBoard(ctx context.Context, board *domain.Board) error {
	if m.UpdateBoardFunc != nil {
		return m.UpdateBoardFunc(ctx, board)
	}
	return nil
}

func (m *MockProjectRepository) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	if m.DeleteBoardFunc != nil {
		return m.DeleteBoardFunc(ctx, id)
	}
	return nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	CreateFunc                func(ctx context.Context, task *domain.Task) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByBoardIDFunc         func(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	FindFilteredFunc          func(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error)
	FindDueForOverdueScanFunc func(ctx context.Context, today time.Time) ([]*domain.Task, error)
	UpdateFunc                func(ctx context.Context, task *domain.Task) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error
	CountFunc                 func(ctx context.Context) (int64, error)
	CreateDependencyFunc      func(ctx context.Context, dep *domain.TaskDependency) error
	DeleteDependencyFunc      func(ctx context.Context, taskID, dependsOnID uuid.UUID) error
	FindDependenciesFunc      func(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskDependency, error)
	DependencyExistsFunc      func(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindFiltered(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	if m.FindFilteredFunc != nil {
		return m.FindFilteredFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindDueForOverdueScan(ctx context.Context, today time.Time) ([]*domain.Task, error) {
	if m.FindDueForOverdueScanFunc != nil {
		return m.FindDueForOverdueScanFunc(ctx, today)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockTaskRepository) CreateDependency(ctx context.Context, dep *domain.TaskDependency) error {
	if m.CreateDependencyFunc != nil {
		return m.CreateDependencyFunc(ctx, dep)
	}
	return nil
}

func (m *MockTaskRepository) DeleteDependency(ctx context.Context, taskID, dependsOnID uuid.UUID) error {
	if m.DeleteDependencyFunc != nil {
		return m.DeleteDependencyFunc(ctx, taskID, dependsOnID)
	}
	return nil
}

func (m *MockTaskRepository) FindDependencies(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskDependency, error) {
	if m.FindDependenciesFunc != nil {
		return m.FindDependenciesFunc(ctx, taskID)
	}
	return nil, nil
}

func (m *MockTaskRepository) DependencyExists(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
	if m.DependencyExistsFunc != nil {
		return m.DependencyExistsFunc(ctx, taskID, dependsOnID)
	}
	return false, nil
}

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	CreateFunc           func(ctx context.Context, team *domain.Team) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	FindByNameFunc       func(ctx context.Context, name string) (*domain.Team, error)
	FindActiveFunc       func(ctx context.Context) ([]*domain.Team, error)
	UpdateFunc           func(ctx context.Context, team *domain.Team) error
	SoftDeleteFunc       func(ctx context.Context, id uuid.UUID) error
	AddMemberFunc        func(ctx context.Context, membership *domain.TeamMembership) error
	FindMembershipFunc   func(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMembership, error)
	UpdateMembershipFunc func(ctx context.Context, membership *domain.TeamMembership) error
	RemoveMemberFunc     func(ctx context.Context, teamID, userID uuid.UUID) error
	ActiveMemberIDsFunc  func(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, team)
	}
	return nil
}

func (m *MockTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTeamRepository) FindByName(ctx context.Context, name string) (*domain.Team, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockTeamRepository) FindActive(ctx context.Context) ([]*domain.Team, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx)
	}
	return nil, nil
}

func (m *MockTeamRepository) Update(ctx context.Context, team *domain.Team) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, team)
	}
	return nil
}

func (m *MockTeamRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTeamRepository) AddMember(ctx context.Context, membership *domain.TeamMembership) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, membership)
	}
	return nil
}

func (m *MockTeamRepository) FindMembership(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMembership, error) {
	if m.FindMembershipFunc != nil {
		return m.FindMembershipFunc(ctx, teamID, userID)
	}
	return nil, nil
}

func (m *MockTeamRepository) UpdateMembership(ctx context.Context, membership *domain.TeamMembership) error {
	if m.UpdateMembershipFunc != nil {
		return m.UpdateMembershipFunc(ctx, membership)
	}
	return nil
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, teamID, userID)
	}
	return nil
}

func (m *MockTeamRepository) ActiveMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	if m.ActiveMemberIDsFunc != nil {
		return m.ActiveMemberIDsFunc(ctx, teamID)
	}
	return nil, nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	CreateFunc                func(ctx context.Context, notification *domain.Notification) error
	CreateBatchFunc           func(ctx context.Context, notifications []*domain.Notification) error
	FindByUserFunc            func(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) ([]*domain.Notification, int64, error)
	MarkReadFunc              func(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)
	MarkAllReadFunc           func(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCountFunc           func(ctx context.Context, userID uuid.UUID) (int64, error)
	OverdueCountFunc          func(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateOverdueIfAbsentFunc func(ctx context.Context, taskID uuid.UUID, notifications []*domain.Notification) (int, error)
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, notification)
	}
	return nil
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, notifications)
	}
	return nil
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) ([]*domain.Notification, int64, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID, page, limit, unreadOnly)
	}
	return nil, 0, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationRepository) OverdueCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.OverdueCountFunc != nil {
		return m.OverdueCountFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationRepository) CreateOverdueIfAbsent(ctx context.Context, taskID uuid.UUID, notifications []*domain.Notification) (int, error) {
	if m.CreateOverdueIfAbsentFunc != nil {
		return m.CreateOverdueIfAbsentFunc(ctx, taskID, notifications)
	}
	return 0, nil
}

// MockNotifier records emitted task events
type MockNotifier struct {
	CreatedEvents       []*domain.Task
	AssignedEvents      []*domain.Task
	StatusChangedEvents []*domain.Task
	PreviousStatuses    []domain.TaskStatus
	Err                 error
}

func (m *MockNotifier) OnTaskCreated(ctx context.Context, task *domain.Task) error {
	m.CreatedEvents = append(m.CreatedEvents, task)
	return m.Err
}

func (m *MockNotifier) OnTaskAssigned(ctx context.Context, task *domain.Task) error {
	m.AssignedEvents = append(m.AssignedEvents, task)
	return m.Err
}

func (m *MockNotifier) OnTaskStatusChanged(ctx context.Context, task *domain.Task, previousStatus domain.TaskStatus) error {
	m.StatusChangedEvents = append(m.StatusChangedEvents, task)
	m.PreviousStatuses = append(m.PreviousStatuses, previousStatus)
	return m.Err
}
