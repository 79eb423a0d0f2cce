package repositories

import (
	"context"

	"github.com/SAP-F-2025/scoring-service/internal/models"
)

type SubmissionRepository interface {
	// ===== CRUD OPERATIONS =====
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	GetByIDWithQuestionnaire(ctx context.Context, id uint) (*models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id uint) error

	// ===== QUERY OPERATIONS =====
	List(ctx context.Context, filters SubmissionFilters) (*SubmissionListResult, error)
	GetByStudent(ctx context.Context, studentID string, filters SubmissionFilters) ([]*models.Submission, error)
	GetByQuestionnaire(ctx context.Context, questionnaireID uint, filters SubmissionFilters) ([]*models.Submission, error)

	// GetLatestPerStudent returns each student's most recent submission for
	// the questionnaire, one row per student.
	GetLatestPerStudent(ctx context.Context, questionnaireID uint, studentIDs []string) ([]*models.Submission, error)

	// ===== STATISTICS =====
	GetStats(ctx context.Context, questionnaireID uint) (*SubmissionStats, error)

	// ===== VALIDATION HELPERS =====
	ExistsByID(ctx context.Context, id uint) (bool, error)
}
