package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/metrics"
	"task-tracker-api/internal/response"
)

type taskServiceFixture struct {
	svc      *taskServiceImpl
	tasks    *MockTaskRepository
	projects *MockProjectRepository
	teams    *MockTeamRepository
	users    *MockUserRepository
	notifier *MockNotifier
}

func newTaskServiceFixture() *taskServiceFixture {
	f := &taskServiceFixture{
		tasks:    &MockTaskRepository{},
		projects: &MockProjectRepository{},
		teams:    &MockTeamRepository{},
		users:    &MockUserRepository{},
		notifier: &MockNotifier{},
	}
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	svc := NewTaskService(f.tasks, f.projects, f.teams, f.users, f.notifier, m, zap.NewNop())
	f.svc = svc.(*taskServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return f
}

// withActor wires the user repository to resolve the given user
func (f *taskServiceFixture) withActor(user *domain.User) {
	f.users.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func activeBoard(creatorID uuid.UUID) *domain.Board {
	project := &domain.Project{CreatedByID: creatorID, IsActive: true}
	project.ID = uuid.New()
	board := &domain.Board{ProjectID: project.ID, Project: project}
	board.ID = uuid.New()
	return board
}

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	f := newTaskServiceFixture()
	admin := adminUser()
	f.withActor(admin)

	board := activeBoard(admin.ID)
	f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		return board, nil
	}

	var stored *domain.Task
	f.tasks.CreateFunc = func(ctx context.Context, task *domain.Task) error {
		task.ID = uuid.New()
		stored = task
		return nil
	}
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return stored, nil
	}

	resp, err := f.svc.CreateTask(context.Background(), admin.ID, &dto.CreateTaskRequest{
		BoardID: board.ID,
		Title:   "Write onboarding docs",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusTodo, resp.Status)
	assert.Equal(t, domain.TaskPriorityMedium, resp.Priority)
	assert.Equal(t, 0, resp.Progress)
	assert.Equal(t, admin.ID, stored.CreatedByID)
	assert.Len(t, f.notifier.CreatedEvents, 1)
}

func TestTaskService_CreateTask_ProgressOutOfRange(t *testing.T) {
	f := newTaskServiceFixture()
	admin := adminUser()
	f.withActor(admin)

	board := activeBoard(admin.ID)
	f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		return board, nil
	}

	for _, progress := range []int{-1, 101} {
		p := progress
		_, err := f.svc.CreateTask(context.Background(), admin.ID, &dto.CreateTaskRequest{
			BoardID:  board.ID,
			Title:    "Bad progress",
			Progress: &p,
		})
		assert.Equal(t, response.ErrCodeInvalidRange, appErrCode(t, err))
	}
}

func TestTaskService_CreateTask_StartAfterDue(t *testing.T) {
	f := newTaskServiceFixture()
	admin := adminUser()
	f.withActor(admin)

	board := activeBoard(admin.ID)
	f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		return board, nil
	}

	start := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.CreateTask(context.Background(), admin.ID, &dto.CreateTaskRequest{
		BoardID:   board.ID,
		Title:     "Backwards dates",
		StartDate: &start,
		DueDate:   &due,
	})
	assert.Equal(t, response.ErrCodeInvalidDateRange, appErrCode(t, err))
}

func TestTaskService_CreateTask_NormalizesStatusAndProgress(t *testing.T) {
	completed := domain.TaskStatusCompleted
	hundred := 100

	tests := []struct {
		name         string
		req          dto.CreateTaskRequest
		wantStatus   domain.TaskStatus
		wantProgress int
	}{
		{
			name:         "completed status forces progress 100",
			req:          dto.CreateTaskRequest{Title: "a", Status: &completed},
			wantStatus:   domain.TaskStatusCompleted,
			wantProgress: 100,
		},
		{
			name:         "progress 100 forces completed status",
			req:          dto.CreateTaskRequest{Title: "b", Progress: &hundred},
			wantStatus:   domain.TaskStatusCompleted,
			wantProgress: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskServiceFixture()
			admin := adminUser()
			f.withActor(admin)

			board := activeBoard(admin.ID)
			f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
				return board, nil
			}

			var stored *domain.Task
			f.tasks.CreateFunc = func(ctx context.Context, task *domain.Task) error {
				task.ID = uuid.New()
				stored = task
				return nil
			}
			f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
				return stored, nil
			}

			tt.req.BoardID = board.ID
			resp, err := f.svc.CreateTask(context.Background(), admin.ID, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantProgress, resp.Progress)
		})
	}
}

func TestTaskService_CreateTask_Permissions(t *testing.T) {
	creator := memberUser()
	teamMember := memberUser()
	outsider := memberUser()

	teamID := uuid.New()

	tests := []struct {
		name     string
		actor    *domain.User
		withTeam bool
		wantErr  string
	}{
		{"project creator may create", creator, false, ""},
		{"team member may create", teamMember, true, ""},
		{"outsider is rejected", outsider, false, response.ErrCodeForbidden},
		{"outsider rejected even with team", outsider, true, response.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskServiceFixture()
			f.withActor(tt.actor)

			board := activeBoard(creator.ID)
			if tt.withTeam {
				board.Project.TeamID = &teamID
			}
			f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
				return board, nil
			}
			f.teams.ActiveMemberIDsFunc = func(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
				return []uuid.UUID{teamMember.ID}, nil
			}

			var stored *domain.Task
			f.tasks.CreateFunc = func(ctx context.Context, task *domain.Task) error {
				task.ID = uuid.New()
				stored = task
				return nil
			}
			f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
				return stored, nil
			}

			_, err := f.svc.CreateTask(context.Background(), tt.actor.ID, &dto.CreateTaskRequest{
				BoardID: board.ID,
				Title:   "New task",
			})
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantErr, appErrCode(t, err))
			}
		})
	}
}

func TestTaskService_CreateTask_ActorResolution(t *testing.T) {
	t.Run("unknown actor", func(t *testing.T) {
		f := newTaskServiceFixture()
		f.users.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := f.svc.CreateTask(context.Background(), uuid.New(), &dto.CreateTaskRequest{Title: "x"})
		assert.Equal(t, response.ErrCodeUnauthorized, appErrCode(t, err))
	})

	t.Run("deactivated actor", func(t *testing.T) {
		f := newTaskServiceFixture()
		inactive := memberUser()
		inactive.IsActive = false
		f.withActor(inactive)

		_, err := f.svc.CreateTask(context.Background(), inactive.ID, &dto.CreateTaskRequest{Title: "x"})
		assert.Equal(t, response.ErrCodeForbidden, appErrCode(t, err))
	})
}

func TestTaskService_CreateTask_BoardNotFound(t *testing.T) {
	f := newTaskServiceFixture()
	admin := adminUser()
	f.withActor(admin)

	t.Run("missing board", func(t *testing.T) {
		f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
			return nil, gorm.ErrRecordNotFound
		}
		_, err := f.svc.CreateTask(context.Background(), admin.ID, &dto.CreateTaskRequest{BoardID: uuid.New(), Title: "x"})
		assert.Equal(t, response.ErrCodeNotFound, appErrCode(t, err))
	})

	t.Run("board of an archived project", func(t *testing.T) {
		board := activeBoard(admin.ID)
		board.Project.IsActive = false
		f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
			return board, nil
		}
		_, err := f.svc.CreateTask(context.Background(), admin.ID, &dto.CreateTaskRequest{BoardID: board.ID, Title: "x"})
		assert.Equal(t, response.ErrCodeNotFound, appErrCode(t, err))
	})
}

func TestTaskService_CreateTask_NotifierFailureDoesNotFail(t *testing.T) {
	f := newTaskServiceFixture()
	admin := adminUser()
	f.withActor(admin)
	f.notifier.Err = errors.New("broker down")

	board := activeBoard(admin.ID)
	f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		return board, nil
	}

	var stored *domain.Task
	f.tasks.CreateFunc = func(ctx context.Context, task *domain.Task) error {
		task.ID = uuid.New()
		stored = task
		return nil
	}
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return stored, nil
	}

	_, err := f.svc.CreateTask(context.Background(), admin.ID, &dto.CreateTaskRequest{BoardID: board.ID, Title: "x"})
	assert.NoError(t, err)
}

func existingTask(creatorID uuid.UUID) *domain.Task {
	task := &domain.Task{
		Title:       "Existing",
		Status:      domain.TaskStatusInProgress,
		Priority:    domain.TaskPriorityMedium,
		Progress:    40,
		CreatedByID: creatorID,
	}
	task.ID = uuid.New()
	return task
}

func TestTaskService_UpdateTask_EmitsStatusChange(t *testing.T) {
	f := newTaskServiceFixture()
	creator := memberUser()
	f.withActor(creator)

	task := existingTask(creator.ID)
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	completed := domain.TaskStatusCompleted
	resp, err := f.svc.UpdateTask(context.Background(), creator.ID, task.ID, &dto.UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, resp.Status)
	assert.Equal(t, 100, resp.Progress)
	require.Len(t, f.notifier.StatusChangedEvents, 1)
	assert.Equal(t, domain.TaskStatusInProgress, f.notifier.PreviousStatuses[0])
	assert.Empty(t, f.notifier.AssignedEvents)
}

func TestTaskService_UpdateTask_EmitsAssignment(t *testing.T) {
	f := newTaskServiceFixture()
	creator := memberUser()
	assignee := memberUser()
	f.withActor(creator)

	task := existingTask(creator.ID)
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	_, err := f.svc.UpdateTask(context.Background(), creator.ID, task.ID, &dto.UpdateTaskRequest{AssignedToID: &assignee.ID})
	require.NoError(t, err)

	require.Len(t, f.notifier.AssignedEvents, 1)
	assert.Empty(t, f.notifier.StatusChangedEvents)
}

func TestTaskService_UpdateTask_NoEventsWithoutChange(t *testing.T) {
	f := newTaskServiceFixture()
	creator := memberUser()
	f.withActor(creator)

	task := existingTask(creator.ID)
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	title := "Renamed"
	_, err := f.svc.UpdateTask(context.Background(), creator.ID, task.ID, &dto.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)

	assert.Empty(t, f.notifier.StatusChangedEvents)
	assert.Empty(t, f.notifier.AssignedEvents)
}

func TestTaskService_UpdateTask_ClearingAssigneeEmitsNothing(t *testing.T) {
	f := newTaskServiceFixture()
	creator := memberUser()
	assignee := memberUser()
	f.withActor(creator)

	task := existingTask(creator.ID)
	task.AssignedToID = &assignee.ID
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	_, err := f.svc.UpdateTask(context.Background(), creator.ID, task.ID, &dto.UpdateTaskRequest{ClearAssignee: true})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.AssignedEvents)
}

func TestTaskService_UpdateTask_Forbidden(t *testing.T) {
	f := newTaskServiceFixture()
	creator := memberUser()
	bystander := memberUser()
	f.withActor(bystander)

	task := existingTask(creator.ID)
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	title := "Hijack"
	_, err := f.svc.UpdateTask(context.Background(), bystander.ID, task.ID, &dto.UpdateTaskRequest{Title: &title})
	assert.Equal(t, response.ErrCodeForbidden, appErrCode(t, err))
}

func TestTaskService_UpdateTaskStatus_RejectsUnknownStatus(t *testing.T) {
	f := newTaskServiceFixture()
	_, err := f.svc.UpdateTaskStatus(context.Background(), uuid.New(), uuid.New(), domain.TaskStatus("archived"))
	assert.Equal(t, response.ErrCodeValidation, appErrCode(t, err))
}

func TestTaskService_UpdateTaskProgress_Completes(t *testing.T) {
	f := newTaskServiceFixture()
	creator := memberUser()
	f.withActor(creator)

	task := existingTask(creator.ID)
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return task, nil
	}

	resp, err := f.svc.UpdateTaskProgress(context.Background(), creator.ID, task.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, resp.Status)
	require.Len(t, f.notifier.StatusChangedEvents, 1)
}

func TestTaskService_DeleteTask_Permissions(t *testing.T) {
	creator := memberUser()
	assignee := memberUser()
	bystander := memberUser()

	setup := func(actor *domain.User) (*taskServiceFixture, *domain.Task) {
		f := newTaskServiceFixture()
		f.withActor(actor)
		task := existingTask(creator.ID)
		task.AssignedToID = &assignee.ID
		f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			return task, nil
		}
		return f, task
	}

	t.Run("creator deletes", func(t *testing.T) {
		f, task := setup(creator)
		assert.NoError(t, f.svc.DeleteTask(context.Background(), creator.ID, task.ID))
	})

	t.Run("assignee cannot delete", func(t *testing.T) {
		f, task := setup(assignee)
		deleted := false
		f.tasks.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		}

		err := f.svc.DeleteTask(context.Background(), assignee.ID, task.ID)
		assert.Equal(t, response.ErrCodeForbidden, appErrCode(t, err))
		assert.False(t, deleted, "repository delete must not run")
	})

	t.Run("bystander cannot delete", func(t *testing.T) {
		f, task := setup(bystander)
		err := f.svc.DeleteTask(context.Background(), bystander.ID, task.ID)
		assert.Equal(t, response.ErrCodeForbidden, appErrCode(t, err))
	})
}

func TestTaskService_TaskGaugeRefreshes(t *testing.T) {
	f := newTaskServiceFixture()
	admin := adminUser()
	f.withActor(admin)

	board := activeBoard(admin.ID)
	f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		return board, nil
	}

	var stored *domain.Task
	f.tasks.CreateFunc = func(ctx context.Context, task *domain.Task) error {
		task.ID = uuid.New()
		stored = task
		return nil
	}
	f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		return stored, nil
	}

	counts := 0
	f.tasks.CountFunc = func(ctx context.Context) (int64, error) {
		counts++
		return int64(counts), nil
	}

	resp, err := f.svc.CreateTask(context.Background(), admin.ID, &dto.CreateTaskRequest{
		BoardID: board.ID,
		Title:   "Gauge check",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counts, "create refreshes the task gauge")

	require.NoError(t, f.svc.DeleteTask(context.Background(), admin.ID, resp.ID))
	assert.Equal(t, 2, counts, "delete refreshes the task gauge")
}

func TestTaskService_AddDependency(t *testing.T) {
	creator := memberUser()

	t.Run("self dependency rejected", func(t *testing.T) {
		f := newTaskServiceFixture()
		f.withActor(creator)
		id := uuid.New()
		_, err := f.svc.AddDependency(context.Background(), creator.ID, id, id)
		assert.Equal(t, response.ErrCodeValidation, appErrCode(t, err))
	})

	t.Run("duplicate edge rejected", func(t *testing.T) {
		f := newTaskServiceFixture()
		f.withActor(creator)

		task := existingTask(creator.ID)
		other := existingTask(creator.ID)
		f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			if id == task.ID {
				return task, nil
			}
			return other, nil
		}
		f.tasks.DependencyExistsFunc = func(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
			return true, nil
		}

		_, err := f.svc.AddDependency(context.Background(), creator.ID, task.ID, other.ID)
		assert.Equal(t, response.ErrCodeAlreadyExists, appErrCode(t, err))
	})

	t.Run("new edge created", func(t *testing.T) {
		f := newTaskServiceFixture()
		f.withActor(creator)

		task := existingTask(creator.ID)
		other := existingTask(creator.ID)
		other.Title = "Prerequisite"
		f.tasks.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
			if id == task.ID {
				return task, nil
			}
			return other, nil
		}
		f.tasks.CreateDependencyFunc = func(ctx context.Context, dep *domain.TaskDependency) error {
			dep.ID = uuid.New()
			return nil
		}

		resp, err := f.svc.AddDependency(context.Background(), creator.ID, task.ID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, resp.TaskID)
		assert.Equal(t, other.ID, resp.DependsOnID)
		assert.Equal(t, "Prerequisite", resp.DependsOnTitle)
	})
}

func TestTaskService_GetKanban_GroupsByStatus(t *testing.T) {
	f := newTaskServiceFixture()
	admin := adminUser()
	f.withActor(admin)

	board := activeBoard(admin.ID)
	f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		return board, nil
	}

	todo := existingTask(admin.ID)
	todo.Status = domain.TaskStatusTodo
	done := existingTask(admin.ID)
	done.Status = domain.TaskStatusCompleted
	f.tasks.FindByBoardIDFunc = func(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
		return []*domain.Task{todo, done}, nil
	}

	kanban, err := f.svc.GetKanban(context.Background(), admin.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, kanban.Columns, 4)

	byStatus := map[domain.TaskStatus]int{}
	for _, col := range kanban.Columns {
		byStatus[col.Status] = len(col.Tasks)
	}
	assert.Equal(t, 1, byStatus[domain.TaskStatusTodo])
	assert.Equal(t, 0, byStatus[domain.TaskStatusInProgress])
	assert.Equal(t, 0, byStatus[domain.TaskStatusWaiting])
	assert.Equal(t, 1, byStatus[domain.TaskStatusCompleted])
}

func TestTaskService_GetBoardTasks_MemberScoping(t *testing.T) {
	f := newTaskServiceFixture()
	member := memberUser()
	f.withActor(member)

	board := activeBoard(uuid.New())
	f.projects.FindBoardByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
		return board, nil
	}

	mine := existingTask(uuid.New())
	mine.AssignedToID = &member.ID
	theirs := existingTask(uuid.New())
	f.tasks.FindByBoardIDFunc = func(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
		return []*domain.Task{mine, theirs}, nil
	}

	tasks, err := f.svc.GetBoardTasks(context.Background(), member.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)
}
