package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-tracker-api/internal/response"
	"task-tracker-api/internal/service"
)

// NotificationHandler exposes the notification surface over HTTP
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications godoc
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Param        page query int false "Page number (default 1)"
// @Param        limit query int false "Page size (default 20, max 100)"
// @Param        unreadOnly query bool false "Only unread notifications"
// @Success      200 {object} response.SuccessResponse{data=dto.PaginatedNotificationsResponse}
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	unreadOnly := c.Query("unreadOnly") == "true"

	notifications, err := h.notificationService.GetNotifications(c.Request.Context(), userID, page, limit, unreadOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, notifications)
}

// MarkRead godoc
// @Summary      Mark one notification read
// @Tags         notifications
// @Produce      json
// @Param        notificationId path string true "Notification ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.NotificationResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /notifications/{notificationId}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	notificationID, err := uuid.Parse(c.Param("notificationId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid notification ID")
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, notification)
}

// MarkAllRead godoc
// @Summary      Mark all of the caller's notifications read
// @Description  Idempotent; succeeds with zero updates when nothing is unread
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.MarkAllReadResponse}
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	result, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// GetCounts godoc
// @Summary      Unread and overdue badge counters
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.NotificationCountsResponse}
// @Router       /notifications/counts [get]
func (h *NotificationHandler) GetCounts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	counts, err := h.notificationService.GetCounts(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, counts)
}

// RunOverdueScan godoc
// @Summary      Run the overdue scan now
// @Description  Internal endpoint for the scheduler. Safe to invoke repeatedly.
// @Tags         internal
// @Produce      json
// @Param        X-Internal-API-Key header string true "Internal API key"
// @Success      200 {object} response.SuccessResponse{data=dto.OverdueScanResponse}
// @Router       /internal/jobs/overdue-scan [post]
func (h *NotificationHandler) RunOverdueScan(c *gin.Context) {
	result, err := h.notificationService.ScanOverdue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
