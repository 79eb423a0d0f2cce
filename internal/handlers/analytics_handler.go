package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/services"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, exportService services.ExportService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetStudentTrends returns per-domain score series for one student
func (h *AnalyticsHandler) GetStudentTrends(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	questionnaireID := uint(parseIntQuery(c, "questionnaire_id", 0))
	if questionnaireID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "questionnaire_id query parameter is required",
		})
		return
	}

	trends, err := h.analyticsService.GetStudentTrends(c.Request.Context(), studentID, questionnaireID, h.timeRange(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trends)
}

// GetClassStatistics returns aggregated domain scores across students
func (h *AnalyticsHandler) GetClassStatistics(c *gin.Context) {
	questionnaireID := h.parseIDParam(c, "id")
	if questionnaireID == 0 {
		return
	}

	stats, err := h.analyticsService.GetClassStatistics(c.Request.Context(), questionnaireID, h.studentIDs(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportClassStatistics downloads class statistics as an xlsx file
func (h *AnalyticsHandler) ExportClassStatistics(c *gin.Context) {
	questionnaireID := h.parseIDParam(c, "id")
	if questionnaireID == 0 {
		return
	}

	h.LogRequest(c, "Exporting class statistics", "questionnaire_id", questionnaireID)

	data, filename, err := h.exportService.ExportClassStatistics(c.Request.Context(), questionnaireID, h.studentIDs(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportStudentTrends downloads a student's progress as an xlsx file
func (h *AnalyticsHandler) ExportStudentTrends(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}
	questionnaireID := uint(parseIntQuery(c, "questionnaire_id", 0))
	if questionnaireID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "questionnaire_id query parameter is required",
		})
		return
	}

	h.LogRequest(c, "Exporting student trends", "student_id", studentID)

	data, filename, err := h.exportService.ExportStudentTrends(c.Request.Context(), studentID, questionnaireID, h.timeRange(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ===== HELPER METHODS =====

func (h *AnalyticsHandler) timeRange(c *gin.Context) services.TimeRange {
	var rng services.TimeRange
	if from, ok := parseTimeQuery(c, "date_from"); ok {
		rng.StartDate = &from
	}
	if to, ok := parseTimeQuery(c, "date_to"); ok {
		rng.EndDate = &to
	}
	return rng
}

func (h *AnalyticsHandler) studentIDs(c *gin.Context) []string {
	raw := c.Query("student_ids")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
