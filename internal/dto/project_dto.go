package dto

import (
	"time"

	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
)

// CreateProjectRequest represents the request to create a new project
// @Description Request body for creating a project. Admin only. A
// @Description default board named "<name> - Main Board" is created with it.
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=200" example:"Website Relaunch"`
	Description string     `json:"description" binding:"max=2000"`
	TeamID      *uuid.UUID `json:"teamId,omitempty"`
}

// UpdateProjectRequest represents the request to update a project. All
// fields are optional.
type UpdateProjectRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	TeamID      *uuid.UUID `json:"teamId,omitempty"`
	ClearTeam   bool       `json:"clearTeam,omitempty"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ID          uuid.UUID       `json:"projectId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedByID uuid.UUID       `json:"createdById"`
	TeamID      *uuid.UUID      `json:"teamId,omitempty"`
	IsActive    bool            `json:"isActive"`
	Boards      []BoardResponse `json:"boards,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateBoardRequest represents the request to add a board to a project
type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200" example:"Sprint 12"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateBoardRequest represents the request to update a board
type UpdateBoardRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// BoardResponse represents the board response
type BoardResponse struct {
	ID          uuid.UUID `json:"boardId"`
	ProjectID   uuid.UUID `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToProjectResponse converts a domain project to its response form
func ToProjectResponse(project *domain.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedByID: project.CreatedByID,
		TeamID:      project.TeamID,
		IsActive:    project.IsActive,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	for i := range project.Boards {
		resp.Boards = append(resp.Boards, ToBoardResponse(&project.Boards[i]))
	}
	return resp
}

// ToBoardResponse converts a domain board to its response form
func ToBoardResponse(board *domain.Board) BoardResponse {
	return BoardResponse{
		ID:          board.ID,
		ProjectID:   board.ProjectID,
		Name:        board.Name,
		Description: board.Description,
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}
