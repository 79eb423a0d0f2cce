package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/services"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

type ScoringHandler struct {
	BaseHandler
	scoringService services.ScoringService
}

func NewScoringHandler(scoringService services.ScoringService, logger utils.Logger) *ScoringHandler {
	return &ScoringHandler{
		BaseHandler:    NewBaseHandler(logger),
		scoringService: scoringService,
	}
}

// GetReport returns the score report for a submission, computing it on
// demand when no cached or stored report exists
func (h *ScoringHandler) GetReport(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	result, err := h.scoringService.GetReport(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.FromCache {
		c.Header("X-Cache", "HIT")
	}
	c.JSON(http.StatusOK, result)
}

// RescoreSubmission forces a fresh computation of the submission's report
func (h *ScoringHandler) RescoreSubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if _, ok := h.requireUserID(c); !ok {
		return
	}

	h.LogRequest(c, "Rescoring submission", "submission_id", id)

	result, err := h.scoringService.Rescore(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
