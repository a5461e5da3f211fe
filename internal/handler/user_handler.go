package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker-api/internal/response"
	"task-tracker-api/internal/service"
)

// UserHandler exposes user listing and the current-user lookup
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.UserResponse}
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	user, err := h.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}

// ListUsers godoc
// @Summary      List active users
// @Description  Used by assignment pickers
// @Tags         users
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.UserResponse}
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, users)
}
