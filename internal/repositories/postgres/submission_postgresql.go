package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
)

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) repositories.SubmissionRepository {
	return &submissionRepository{db: db}
}

// ===== CRUD OPERATIONS =====

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) GetByIDWithQuestionnaire(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Questionnaire").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	if err := r.db.WithContext(ctx).Save(submission).Error; err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Submission{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *submissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) (*repositories.SubmissionListResult, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	query = r.applySorting(query, filters)
	query = applyPagination(query, filters.Limit, filters.Offset)

	var submissions []*models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return &repositories.SubmissionListResult{
		Submissions: submissions,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

func (r *submissionRepository) GetByStudent(ctx context.Context, studentID string, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("student_id = ?", studentID)
	query = r.applyFilters(query, filters)

	// Trend analysis wants chronological order regardless of the caller's
	// sort preference.
	var submissions []*models.Submission
	if err := query.Order("submitted_at ASC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get submissions by student: %w", err)
	}
	return submissions, nil
}

func (r *submissionRepository) GetByQuestionnaire(ctx context.Context, questionnaireID uint, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	filters.QuestionnaireID = &questionnaireID
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	query = r.applyFilters(query, filters)
	query = r.applySorting(query, filters)

	var submissions []*models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get submissions by questionnaire: %w", err)
	}
	return submissions, nil
}

func (r *submissionRepository) GetLatestPerStudent(ctx context.Context, questionnaireID uint, studentIDs []string) ([]*models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("questionnaire_id = ?", questionnaireID).
		Where(`id IN (
			SELECT DISTINCT ON (student_id) id
			FROM submissions
			WHERE questionnaire_id = ? AND deleted_at IS NULL
			ORDER BY student_id, submitted_at DESC
		)`, questionnaireID)
	if len(studentIDs) > 0 {
		query = query.Where("student_id IN ?", studentIDs)
	}

	var submissions []*models.Submission
	if err := query.Order("student_id ASC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest submissions per student: %w", err)
	}
	return submissions, nil
}

// ===== STATISTICS =====

func (r *submissionRepository) GetStats(ctx context.Context, questionnaireID uint) (*repositories.SubmissionStats, error) {
	var stats repositories.SubmissionStats
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("questionnaire_id = ?", questionnaireID).
		Select(`COUNT(*) as total_submissions,
			COUNT(DISTINCT student_id) as student_count,
			MIN(submitted_at) as first_submitted_at,
			MAX(submitted_at) as last_submitted_at`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get submission stats: %w", err)
	}
	return &stats, nil
}

// ===== VALIDATION HELPERS =====

func (r *submissionRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check submission existence: %w", err)
	}
	return count > 0, nil
}

// ===== HELPER METHODS =====

func (r *submissionRepository) applyFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.QuestionnaireID != nil {
		query = query.Where("questionnaire_id = ?", *filters.QuestionnaireID)
	}
	if filters.SubmittedBy != nil {
		query = query.Where("submitted_by = ?", *filters.SubmittedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *submissionRepository) applySorting(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "submitted_at", "created_at", "student_id":
	default:
		sortBy = "submitted_at"
	}
	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
