package dto

import (
	"time"

	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
)

// CreateTeamRequest represents the request to create a new team. Admin only.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100" example:"Platform"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateTeamRequest represents the request to update a team
type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// AddTeamMemberRequest represents the request to add a user to a team
type AddTeamMemberRequest struct {
	UserID uuid.UUID        `json:"userId" binding:"required"`
	Role   *domain.TeamRole `json:"role,omitempty" example:"member"`
}

// UpdateTeamMemberRequest represents the request to change a member's team role
type UpdateTeamMemberRequest struct {
	Role domain.TeamRole `json:"role" binding:"required,oneof=leader member"`
}

// TeamMemberResponse represents one membership of a team
type TeamMemberResponse struct {
	UserID    uuid.UUID       `json:"userId"`
	UserName  string          `json:"userName,omitempty"`
	UserEmail string          `json:"userEmail,omitempty"`
	Role      domain.TeamRole `json:"role"`
	IsActive  bool            `json:"isActive"`
	JoinedAt  time.Time       `json:"joinedAt"`
}

// TeamResponse represents the team response
type TeamResponse struct {
	ID          uuid.UUID            `json:"teamId"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	CreatedByID uuid.UUID            `json:"createdById"`
	IsActive    bool                 `json:"isActive"`
	Members     []TeamMemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ToTeamResponse converts a domain team to its response form
func ToTeamResponse(team *domain.Team) TeamResponse {
	resp := TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedByID: team.CreatedByID,
		IsActive:    team.IsActive,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
	for i := range team.Memberships {
		m := &team.Memberships[i]
		member := TeamMemberResponse{
			UserID:   m.UserID,
			Role:     m.Role,
			IsActive: m.IsActive,
			JoinedAt: m.JoinedAt,
		}
		if m.User != nil {
			member.UserName = m.User.DisplayName()
			member.UserEmail = m.User.Email
		}
		resp.Members = append(resp.Members, member)
	}
	return resp
}
