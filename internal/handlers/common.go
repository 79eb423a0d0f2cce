package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/services"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error translation for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", h.extractUserID(c),
		"timestamp", time.Now().Format(time.RFC3339),
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", h.extractUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// Helper method to extract user ID from context
func (h *BaseHandler) extractUserID(c *gin.Context) interface{} {
	if userID, exists := c.Get("user_id"); exists {
		return userID
	}
	return nil
}

// requireUserID returns the authenticated user id or writes a 401
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return id, true
}

// parseIDParam parses a numeric path parameter, writing a 400 on failure
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

// handleServiceError translates service errors into HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsUnauthorized(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrQuestionnaireNotActive),
		errors.Is(err, services.ErrQuestionnaireNotEditable):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
