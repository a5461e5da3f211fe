package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-tracker-api/internal/middleware"
)

// currentUserID pulls the authenticated user ID placed by the auth
// middleware. The second return is false when the route was somehow
// reached without authentication.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
