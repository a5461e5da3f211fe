package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"task-tracker-api/internal/dto"
	"task-tracker-api/internal/response"
	"task-tracker-api/internal/service"
)

// ReportHandler exposes the aggregation surface over HTTP
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReport godoc
// @Summary      Build a report over the caller's visible tasks
// @Description  Filters combine with AND semantics; omitted filters impose no constraint
// @Tags         reports
// @Produce      json
// @Param        from query string false "Created-at lower bound (YYYY-MM-DD)"
// @Param        to query string false "Created-at upper bound, inclusive (YYYY-MM-DD)"
// @Param        projectId query string false "Project ID (UUID)"
// @Param        userId query string false "Assignee user ID (UUID)"
// @Param        status query string false "Task status"
// @Success      200 {object} response.SuccessResponse{data=dto.ReportResponse}
// @Failure      400 {object} response.ErrorResponse
// @Router       /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var filters dto.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid report filters")
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), userID, &filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, report)
}

// ExportReportCSV godoc
// @Summary      Export the report's task rows as CSV
// @Description  Same filters and visibility as the JSON report; only the serialization differs
// @Tags         reports
// @Produce      text/csv
// @Param        from query string false "Created-at lower bound (YYYY-MM-DD)"
// @Param        to query string false "Created-at upper bound, inclusive (YYYY-MM-DD)"
// @Param        projectId query string false "Project ID (UUID)"
// @Param        userId query string false "Assignee user ID (UUID)"
// @Param        status query string false "Task status"
// @Success      200 {string} string "CSV payload"
// @Failure      400 {object} response.ErrorResponse
// @Router       /reports/export [get]
func (h *ReportHandler) ExportReportCSV(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var filters dto.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid report filters")
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), userID, &filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("task-report-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"title", "status", "priority", "progress", "due_date", "assigned_to", "created_by", "overdue", "created_at"})
	for _, task := range report.Tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format("2006-01-02")
		}
		_ = w.Write([]string{
			task.Title,
			string(task.Status),
			string(task.Priority),
			strconv.Itoa(task.Progress),
			dueDate,
			task.AssignedToName,
			task.CreatedByName,
			strconv.FormatBool(task.IsOverdue),
			task.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}

// GetDashboard godoc
// @Summary      Landing-page rollup for the caller
// @Tags         reports
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.DashboardResponse}
// @Router       /dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	dashboard, err := h.reportService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dashboard)
}
