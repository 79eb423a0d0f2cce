package repositories

import (
	"context"

	"github.com/SAP-F-2025/scoring-service/internal/models"
)

type ScoreReportRepository interface {
	// ===== CRUD OPERATIONS =====

	// Upsert inserts the report or replaces the existing row for the same
	// (submission, template version) pair.
	Upsert(ctx context.Context, report *models.ScoreReport) error
	GetByID(ctx context.Context, id uint) (*models.ScoreReport, error)

	// GetBySubmissionVersion returns the report computed for the submission
	// against the given template version, or gorm.ErrRecordNotFound.
	GetBySubmissionVersion(ctx context.Context, submissionID uint, templateVersion int) (*models.ScoreReport, error)

	// ===== QUERY OPERATIONS =====
	GetBySubmissionIDs(ctx context.Context, submissionIDs []uint, templateVersion int) ([]*models.ScoreReport, error)

	// ===== INVALIDATION =====

	// DeleteStale removes reports for the questionnaire computed against
	// any version other than current. Returns the affected submission ids
	// so callers can evict per-submission cache entries.
	DeleteStale(ctx context.Context, questionnaireID uint, currentVersion int) ([]uint, error)
	DeleteBySubmission(ctx context.Context, submissionID uint) error
}
