package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/response"
	"task-tracker-api/internal/service"
)

// TeamHandler exposes team management over HTTP
type TeamHandler struct {
	teamService service.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam godoc
// @Summary      Create a team (admin only)
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateTeamRequest true "Team to create"
// @Success      201 {object} response.SuccessResponse{data=dto.TeamResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, team)
}

// GetTeam godoc
// @Summary      Get a team with its members
// @Tags         teams
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TeamResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /teams/{teamId} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid team ID")
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), userID, teamID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, team)
}

// ListTeams godoc
// @Summary      List active teams
// @Tags         teams
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.TeamResponse}
// @Router       /teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	teams, err := h.teamService.ListTeams(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, teams)
}

// UpdateTeam godoc
// @Summary      Update a team (admin only)
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Param        request body dto.UpdateTeamRequest true "Fields to update"
// @Success      200 {object} response.SuccessResponse{data=dto.TeamResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /teams/{teamId} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid team ID")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), userID, teamID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, team)
}

// DeleteTeam godoc
// @Summary      Soft-delete a team (admin only)
// @Tags         teams
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /teams/{teamId} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid team ID")
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), userID, teamID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// AddMember godoc
// @Summary      Add a user to a team (admin only)
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Param        request body dto.AddTeamMemberRequest true "Member to add"
// @Success      201 {object} response.SuccessResponse{data=dto.TeamResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /teams/{teamId}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid team ID")
		return
	}

	var req dto.AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	team, err := h.teamService.AddMember(c.Request.Context(), userID, teamID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, team)
}

// UpdateMemberRole godoc
// @Summary      Change a team member's role (admin only)
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Param        userId path string true "User ID (UUID)"
// @Param        request body dto.UpdateTeamMemberRequest true "New role"
// @Success      200 {object} response.SuccessResponse{data=dto.TeamResponse}
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /teams/{teamId}/members/{userId} [patch]
func (h *TeamHandler) UpdateMemberRole(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid team ID")
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid user ID")
		return
	}

	var req dto.UpdateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateMemberRole(c.Request.Context(), actorID, teamID, memberID, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, team)
}

// RemoveMember godoc
// @Summary      Remove a user from a team (admin only)
// @Tags         teams
// @Produce      json
// @Param        teamId path string true "Team ID (UUID)"
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /teams/{teamId}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid team ID")
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid user ID")
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), actorID, teamID, memberID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
