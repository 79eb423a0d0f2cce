package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/scoring-service/internal/models"
)

// Repository aggregates all data access used by the scoring service.
type Repository interface {
	Questionnaire() QuestionnaireRepository
	Submission() SubmissionRepository
	Report() ScoreReportRepository
	User() UserRepository

	// WithTransaction runs fn against a Repository bound to a single
	// database transaction. Returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== FILTER STRUCTS =====

type QuestionnaireFilters struct {
	Status    *models.QuestionnaireStatus `json:"status"`
	CreatedBy *string                     `json:"created_by"`
	Search    *string                     `json:"search"`
	Limit     int                         `json:"limit"`
	Offset    int                         `json:"offset"`
	SortBy    string                      `json:"sort_by"`    // "created_at", "title", "updated_at"
	SortOrder string                      `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	StudentID       *string    `json:"student_id"`
	QuestionnaireID *uint      `json:"questionnaire_id"`
	SubmittedBy     *string    `json:"submitted_by"`
	DateFrom        *time.Time `json:"date_from"`
	DateTo          *time.Time `json:"date_to"`
	Limit           int        `json:"limit"`
	Offset          int        `json:"offset"`
	SortBy          string     `json:"sort_by"`
	SortOrder       string     `json:"sort_order"`
}

// ===== RESULT STRUCTS =====

type QuestionnaireListResult struct {
	Questionnaires []*models.Questionnaire `json:"questionnaires"`
	Total          int64                   `json:"total"`
	Limit          int                     `json:"limit"`
	Offset         int                     `json:"offset"`
}

type SubmissionListResult struct {
	Submissions []*models.Submission `json:"submissions"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

type SubmissionStats struct {
	TotalSubmissions int64      `json:"total_submissions"`
	StudentCount     int64      `json:"student_count"`
	FirstSubmittedAt *time.Time `json:"first_submitted_at"`
	LastSubmittedAt  *time.Time `json:"last_submitted_at"`
}
