package service

import (
	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
)

// Permission predicates. All are deterministic and side-effect-free;
// callers load the entities and membership data before asking. Admins
// pass every check unconditionally.

// CanViewProject reports whether the user may see the project:
// admins, the creator, and anyone with a task assigned inside it.
func CanViewProject(user *domain.User, project *domain.Project, hasAssignedTask bool) bool {
	if user.IsAdmin() {
		return true
	}
	if project.CreatedByID == user.ID {
		return true
	}
	return hasAssignedTask
}

// CanMutateProject reports whether the user may create, update or
// delete projects. Admin only.
func CanMutateProject(user *domain.User) bool {
	return user.IsAdmin()
}

// CanMutateTeam reports whether the user may create, update or delete
// teams and memberships. Admin only.
func CanMutateTeam(user *domain.User) bool {
	return user.IsAdmin()
}

// CanMutateTask reports whether the user may update or delete the task:
// admins, the creator, and the current assignee.
func CanMutateTask(user *domain.User, task *domain.Task) bool {
	if user.IsAdmin() {
		return true
	}
	if task.CreatedByID == user.ID {
		return true
	}
	return task.IsAssignedTo(user.ID)
}

// CanDeleteTask reports whether the user may delete the task: admins
// and the creator. Assignees may update their tasks but not remove
// them.
func CanDeleteTask(user *domain.User, task *domain.Task) bool {
	if user.IsAdmin() {
		return true
	}
	return task.CreatedByID == user.ID
}

// CanCreateTaskOn reports whether the user may create a task on a board
// of the given project: admins, the project creator, and active members
// of the project's team when the project has one. teamMemberIDs holds
// the active member IDs of that team (empty when the project has none).
func CanCreateTaskOn(user *domain.User, project *domain.Project, teamMemberIDs []uuid.UUID) bool {
	if user.IsAdmin() {
		return true
	}
	if project.CreatedByID == user.ID {
		return true
	}
	if project.TeamID == nil {
		return false
	}
	for _, id := range teamMemberIDs {
		if id == user.ID {
			return true
		}
	}
	return false
}

// CanViewTask reports whether the user may read the task. Members see
// tasks they are assigned to or created; the general listing surface is
// narrower (see VisibleTaskSet) but anyone allowed to mutate a task can
// also read it.
func CanViewTask(user *domain.User, task *domain.Task) bool {
	return CanMutateTask(user, task)
}

// VisibleTaskSet filters tasks down to what the user may see: the full
// set for admins, only assigned tasks for members. The returned slice
// is never more than the input and preserves its order.
func VisibleTaskSet(user *domain.User, tasks []*domain.Task) []*domain.Task {
	if user.IsAdmin() {
		return tasks
	}
	visible := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.IsAssignedTo(user.ID) {
			visible = append(visible, task)
		}
	}
	return visible
}
