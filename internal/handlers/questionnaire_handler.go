package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
	"github.com/SAP-F-2025/scoring-service/internal/services"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

type QuestionnaireHandler struct {
	BaseHandler
	questionnaireService services.QuestionnaireService
}

func NewQuestionnaireHandler(questionnaireService services.QuestionnaireService, logger utils.Logger) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		BaseHandler:          NewBaseHandler(logger),
		questionnaireService: questionnaireService,
	}
}

type UpdateStructureRequest struct {
	Structure []*scoring.QuestionnaireNode `json:"structure" validate:"required"`
}

// CreateQuestionnaire creates a new questionnaire template
func (h *QuestionnaireHandler) CreateQuestionnaire(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating questionnaire", "title", req.Title)

	questionnaire, err := h.questionnaireService.Create(c.Request.Context(), req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, questionnaire)
}

// GetQuestionnaire returns a questionnaire by id
func (h *QuestionnaireHandler) GetQuestionnaire(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	questionnaire, err := h.questionnaireService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questionnaire)
}

// ListQuestionnaires lists questionnaires with optional filters
func (h *QuestionnaireHandler) ListQuestionnaires(c *gin.Context) {
	filters := repositories.QuestionnaireFilters{
		Limit:     parseIntQuery(c, "limit", 20),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		s := models.QuestionnaireStatus(status)
		filters.Status = &s
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	result, err := h.questionnaireService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateQuestionnaire updates title and description
func (h *QuestionnaireHandler) UpdateQuestionnaire(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	questionnaire, err := h.questionnaireService.Update(c.Request.Context(), id, req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questionnaire)
}

// UpdateStructure replaces the questionnaire structure and bumps its version
func (h *QuestionnaireHandler) UpdateStructure(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req UpdateStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating questionnaire structure", "questionnaire_id", id)

	questionnaire, err := h.questionnaireService.UpdateStructure(c.Request.Context(), id, req.Structure, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questionnaire)
}

// PublishQuestionnaire transitions a draft questionnaire to active
func (h *QuestionnaireHandler) PublishQuestionnaire(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.questionnaireService.Publish(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Questionnaire published"})
}

// ArchiveQuestionnaire transitions a questionnaire to archived
func (h *QuestionnaireHandler) ArchiveQuestionnaire(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.questionnaireService.Archive(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Questionnaire archived"})
}

// DeleteQuestionnaire removes a questionnaire without submissions
func (h *QuestionnaireHandler) DeleteQuestionnaire(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.questionnaireService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Questionnaire deleted"})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
