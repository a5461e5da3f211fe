package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"task-tracker-api/internal/domain"
	"task-tracker-api/internal/response"
)

// Context keys set by Auth for downstream handlers
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Auth returns a middleware that validates JWT tokens issued by the
// accounts system. Claims carry user_id and role; both are stored in
// the gin context. The role claim is advisory only; services load the
// user row before any permission decision.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}

		var userIDStr string
		if uid, ok := claims["user_id"].(string); ok {
			userIDStr = uid
		} else if sub, ok := claims["sub"].(string); ok {
			userIDStr = sub
		} else {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid user ID format")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		if role, ok := claims["role"].(string); ok {
			c.Set(ContextRole, domain.Role(role))
		}

		c.Next()
	}
}

// InternalAuth returns a middleware guarding internal endpoints with a
// static API key (X-Internal-API-Key header)
func InternalAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || c.GetHeader("X-Internal-API-Key") != apiKey {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid internal API key")
			c.Abort()
			return
		}
		c.Next()
	}
}
