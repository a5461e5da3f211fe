package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
)

func TestTaskRepository_FindDueForOverdueScan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleAdmin)
	_, board := seedProjectWithBoard(t, db, user.ID)

	today := dayUTC(2025, 6, 15)
	yesterday := dayUTC(2025, 6, 14)
	tomorrow := dayUTC(2025, 6, 16)

	pastDue := seedTask(t, db, board.ID, user.ID, func(task *domain.Task) {
		task.DueDate = &yesterday
	})
	dueToday := seedTask(t, db, board.ID, user.ID, func(task *domain.Task) {
		task.DueDate = &today
		task.Status = domain.TaskStatusInProgress
	})
	seedTask(t, db, board.ID, user.ID, func(task *domain.Task) {
		task.DueDate = &tomorrow
	})
	seedTask(t, db, board.ID, user.ID, func(task *domain.Task) {
		task.DueDate = &yesterday
		task.Status = domain.TaskStatusCompleted
	})
	seedTask(t, db, board.ID, user.ID, func(task *domain.Task) {
		task.DueDate = &yesterday
		task.Status = domain.TaskStatusWaiting
	})
	seedTask(t, db, board.ID, user.ID, nil) // no due date

	tasks, err := repo.FindDueForOverdueScan(ctx, today)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(tasks))
	for _, task := range tasks {
		ids[task.ID] = true
	}
	assert.Len(t, tasks, 2)
	assert.True(t, ids[pastDue.ID], "task past due should be scanned")
	assert.True(t, ids[dueToday.ID], "task due today should be scanned")
}

func TestTaskRepository_FindFiltered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	admin := seedUser(t, db, domain.RoleAdmin)
	member := seedUser(t, db, domain.RoleMember)
	_, boardA := seedProjectWithBoard(t, db, admin.ID)
	projectB, boardB := seedProjectWithBoard(t, db, admin.ID)

	completedOnB := seedTask(t, db, boardB.ID, admin.ID, func(task *domain.Task) {
		task.Status = domain.TaskStatusCompleted
		task.AssignedToID = &member.ID
	})
	seedTask(t, db, boardB.ID, admin.ID, func(task *domain.Task) {
		task.AssignedToID = &member.ID
	})
	seedTask(t, db, boardA.ID, admin.ID, func(task *domain.Task) {
		task.Status = domain.TaskStatusCompleted
	})

	t.Run("no filter returns everything", func(t *testing.T) {
		tasks, err := repo.FindFiltered(ctx, TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		status := domain.TaskStatusCompleted
		tasks, err := repo.FindFiltered(ctx, TaskFilter{
			ProjectID: &projectB.ID,
			Status:    &status,
		})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, completedOnB.ID, tasks[0].ID)
	})

	t.Run("visibility scope limits to assigned tasks", func(t *testing.T) {
		tasks, err := repo.FindFiltered(ctx, TaskFilter{VisibleTo: &member.ID})
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
		for _, task := range tasks {
			require.NotNil(t, task.AssignedToID)
			assert.Equal(t, member.ID, *task.AssignedToID)
		}
	})

	t.Run("assignee filter", func(t *testing.T) {
		tasks, err := repo.FindFiltered(ctx, TaskFilter{UserID: &member.ID})
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("project relation is preloaded for aggregation", func(t *testing.T) {
		tasks, err := repo.FindFiltered(ctx, TaskFilter{ProjectID: &projectB.ID})
		require.NoError(t, err)
		require.NotEmpty(t, tasks)
		require.NotNil(t, tasks[0].Board)
		require.NotNil(t, tasks[0].Board.Project)
		assert.Equal(t, projectB.ID, tasks[0].Board.Project.ID)
	})
}

func TestTaskRepository_FindFiltered_DateWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleAdmin)
	_, board := seedProjectWithBoard(t, db, user.ID)

	old := seedTask(t, db, board.ID, user.ID, nil)
	require.NoError(t, db.Model(old).Update("created_at", dayUTC(2025, 1, 10)).Error)
	recent := seedTask(t, db, board.ID, user.ID, nil)
	require.NoError(t, db.Model(recent).Update("created_at", dayUTC(2025, 6, 10)).Error)

	from := dayUTC(2025, 3, 1)
	tasks, err := repo.FindFiltered(ctx, TaskFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, recent.ID, tasks[0].ID)

	to := dayUTC(2025, 3, 1)
	tasks, err = repo.FindFiltered(ctx, TaskFilter{To: &to})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, old.ID, tasks[0].ID)
}

func TestTaskRepository_FindByBoardID_Order(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleAdmin)
	_, board := seedProjectWithBoard(t, db, user.ID)

	second := seedTask(t, db, board.ID, user.ID, func(task *domain.Task) { task.Order = 2 })
	first := seedTask(t, db, board.ID, user.ID, func(task *domain.Task) { task.Order = 1 })

	tasks, err := repo.FindByBoardID(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
}

func TestTaskRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleAdmin)
	_, board := seedProjectWithBoard(t, db, user.ID)
	task := seedTask(t, db, board.ID, user.ID, nil)

	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), gorm.ErrRecordNotFound)
}

func TestTaskRepository_Dependencies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleAdmin)
	_, board := seedProjectWithBoard(t, db, user.ID)
	task := seedTask(t, db, board.ID, user.ID, nil)
	prereq := seedTask(t, db, board.ID, user.ID, nil)

	exists, err := repo.DependencyExists(ctx, task.ID, prereq.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	dep := &domain.TaskDependency{TaskID: task.ID, DependsOnID: prereq.ID}
	require.NoError(t, repo.CreateDependency(ctx, dep))
	assert.NotEqual(t, uuid.Nil, dep.ID)

	exists, err = repo.DependencyExists(ctx, task.ID, prereq.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// The edge is directional.
	exists, err = repo.DependencyExists(ctx, prereq.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	deps, err := repo.FindDependencies(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.NotNil(t, deps[0].DependsOn)
	assert.Equal(t, prereq.Title, deps[0].DependsOn.Title)

	require.NoError(t, repo.DeleteDependency(ctx, task.ID, prereq.ID))
	assert.ErrorIs(t, repo.DeleteDependency(ctx, task.ID, prereq.ID), gorm.ErrRecordNotFound)
}

func TestTaskRepository_UpdatePersistsChanges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleAdmin)
	_, board := seedProjectWithBoard(t, db, user.ID)
	task := seedTask(t, db, board.ID, user.ID, nil)

	task.Status = domain.TaskStatusCompleted
	task.Progress = 100
	due := dayUTC(2025, 7, 1)
	task.DueDate = &due
	require.NoError(t, repo.Update(ctx, task))

	reloaded, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, reloaded.Status)
	assert.Equal(t, 100, reloaded.Progress)
	require.NotNil(t, reloaded.DueDate)
	assert.Equal(t, due.Format("2006-01-02"), reloaded.DueDate.UTC().Format("2006-01-02"))
}

func TestTaskRepository_Count(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, domain.RoleAdmin)
	_, board := seedProjectWithBoard(t, db, user.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	for i := 0; i < 3; i++ {
		seedTask(t, db, board.ID, user.ID, nil)
	}

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
