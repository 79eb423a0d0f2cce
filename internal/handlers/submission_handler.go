package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/repositories"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
	"github.com/SAP-F-2025/scoring-service/internal/services"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
	}
}

type UpdateAnswersRequest struct {
	Answers []scoring.Answer `json:"answers" validate:"required,min=1"`
}

// CreateSubmission records a student's answer set
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating submission",
		"questionnaire_id", req.QuestionnaireID,
		"student_id", req.StudentID)

	submission, err := h.submissionService.Create(c.Request.Context(), req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// GetSubmission returns a submission by id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	submission, err := h.submissionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListSubmissions lists submissions with optional filters
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	filters := repositories.SubmissionFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if questionnaireID := uint(parseIntQuery(c, "questionnaire_id", 0)); questionnaireID != 0 {
		filters.QuestionnaireID = &questionnaireID
	}
	if from, ok := parseTimeQuery(c, "date_from"); ok {
		filters.DateFrom = &from
	}
	if to, ok := parseTimeQuery(c, "date_to"); ok {
		filters.DateTo = &to
	}

	result, err := h.submissionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateAnswers replaces the submission's answer set
func (h *SubmissionHandler) UpdateAnswers(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req UpdateAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating submission answers", "submission_id", id)

	submission, err := h.submissionService.UpdateAnswers(c.Request.Context(), id, req.Answers, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// DeleteSubmission removes a submission and its reports
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Submission deleted"})
}

func parseTimeQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Accept plain dates too.
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}
