package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/scoring-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Questionnaire specific errors
	ErrQuestionnaireNotFound      = errors.New("questionnaire not found")
	ErrQuestionnaireAccessDenied  = errors.New("access denied to questionnaire")
	ErrQuestionnaireNotEditable   = errors.New("questionnaire cannot be edited in current status")
	ErrQuestionnaireNotDeletable  = errors.New("questionnaire cannot be deleted - has existing submissions")
	ErrQuestionnaireNotActive     = errors.New("questionnaire is not active")
	ErrQuestionnaireInvalidStatus = errors.New("invalid questionnaire status transition")
	ErrStructureInvalid           = errors.New("questionnaire structure is invalid")
	ErrDuplicateNodeID            = errors.New("duplicate node id in questionnaire structure")

	// Submission specific errors
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrSubmissionAccessDenied = errors.New("access denied to submission")
	ErrSubmissionEmpty        = errors.New("submission contains no answers")

	// Report specific errors
	ErrReportNotFound = errors.New("score report not found")

	// User/Permission errors
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidRole             = errors.New("invalid user role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuestionnaireNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrReportNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrQuestionnaireAccessDenied) ||
		errors.Is(err, ErrSubmissionAccessDenied) ||
		errors.Is(err, ErrInsufficientPermissions)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrStructureInvalid) ||
		errors.Is(err, ErrDuplicateNodeID) ||
		errors.Is(err, ErrSubmissionEmpty) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrQuestionnaireNotDeletable) ||
		errors.Is(err, ErrQuestionnaireInvalidStatus)
}
