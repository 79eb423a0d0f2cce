package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
)

type scoreReportRepository struct {
	db *gorm.DB
}

func NewScoreReportRepository(db *gorm.DB) repositories.ScoreReportRepository {
	return &scoreReportRepository{db: db}
}

// ===== CRUD OPERATIONS =====

func (r *scoreReportRepository) Upsert(ctx context.Context, report *models.ScoreReport) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "submission_id"}, {Name: "template_version"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_score", "payload", "calculated_at", "updated_at",
			}),
		}).
		Create(report).Error
	if err != nil {
		return fmt.Errorf("failed to upsert score report: %w", err)
	}
	return nil
}

func (r *scoreReportRepository) GetByID(ctx context.Context, id uint) (*models.ScoreReport, error) {
	var report models.ScoreReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *scoreReportRepository) GetBySubmissionVersion(ctx context.Context, submissionID uint, templateVersion int) (*models.ScoreReport, error) {
	var report models.ScoreReport
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND template_version = ?", submissionID, templateVersion).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ===== QUERY OPERATIONS =====

func (r *scoreReportRepository) GetBySubmissionIDs(ctx context.Context, submissionIDs []uint, templateVersion int) ([]*models.ScoreReport, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}
	var reports []*models.ScoreReport
	err := r.db.WithContext(ctx).
		Where("submission_id IN ? AND template_version = ?", submissionIDs, templateVersion).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get score reports: %w", err)
	}
	return reports, nil
}

// ===== INVALIDATION =====

func (r *scoreReportRepository) DeleteStale(ctx context.Context, questionnaireID uint, currentVersion int) ([]uint, error) {
	var submissionIDs []uint
	err := r.db.WithContext(ctx).Model(&models.ScoreReport{}).
		Joins("JOIN submissions ON submissions.id = score_reports.submission_id").
		Where("submissions.questionnaire_id = ? AND score_reports.template_version <> ?", questionnaireID, currentVersion).
		Distinct().
		Pluck("score_reports.submission_id", &submissionIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale score reports: %w", err)
	}
	if len(submissionIDs) == 0 {
		return nil, nil
	}

	err = r.db.WithContext(ctx).
		Where("submission_id IN ? AND template_version <> ?", submissionIDs, currentVersion).
		Delete(&models.ScoreReport{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to delete stale score reports: %w", err)
	}
	return submissionIDs, nil
}

func (r *scoreReportRepository) DeleteBySubmission(ctx context.Context, submissionID uint) error {
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Delete(&models.ScoreReport{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete score reports for submission: %w", err)
	}
	return nil
}
