package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-tracker-api/internal/domain"
)

// setupTestDB creates an in-memory SQLite database. Tables are created
// manually because SQLite supports neither the uuid type nor
// gen_random_uuid(); the BaseModel hook generates IDs instead.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to open test database")

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			is_active INTEGER DEFAULT 1
		)`,
		`CREATE TABLE teams (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			created_by_id TEXT NOT NULL,
			is_active INTEGER DEFAULT 1
		)`,
		`CREATE TABLE team_memberships (
			id TEXT PRIMARY KEY,
			team_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			is_active INTEGER DEFAULT 1,
			joined_at DATETIME NOT NULL,
			UNIQUE(team_id, user_id)
		)`,
		`CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			created_by_id TEXT NOT NULL,
			team_id TEXT,
			is_active INTEGER DEFAULT 1
		)`,
		`CREATE TABLE boards (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			project_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			board_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			notes TEXT,
			status TEXT NOT NULL DEFAULT 'todo',
			priority TEXT NOT NULL DEFAULT 'medium',
			progress INTEGER NOT NULL DEFAULT 0,
			start_date DATETIME,
			due_date DATETIME,
			assigned_to_id TEXT,
			created_by_id TEXT NOT NULL,
			task_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE task_dependencies (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			depends_on_id TEXT NOT NULL,
			UNIQUE(task_id, depends_on_id)
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			task_id TEXT,
			is_read INTEGER DEFAULT 0,
			read_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error, "Failed to create test table")
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:    uuid.NewString() + "@example.com",
		Name:     "Test User",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProjectWithBoard(t *testing.T, db *gorm.DB, creatorID uuid.UUID) (*domain.Project, *domain.Board) {
	t.Helper()
	project := &domain.Project{
		Name:        "Project " + uuid.NewString()[:8],
		CreatedByID: creatorID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(project).Error)

	board := &domain.Board{
		ProjectID: project.ID,
		Name:      project.Name + " - Main Board",
	}
	require.NoError(t, db.Create(board).Error)
	return project, board
}

func seedTask(t *testing.T, db *gorm.DB, boardID, creatorID uuid.UUID, mutate func(*domain.Task)) *domain.Task {
	t.Helper()
	task := &domain.Task{
		BoardID:     boardID,
		Title:       "Task " + uuid.NewString()[:8],
		Status:      domain.TaskStatusTodo,
		Priority:    domain.TaskPriorityMedium,
		CreatedByID: creatorID,
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func dayUTC(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
