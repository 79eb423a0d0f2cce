package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
)

type questionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) repositories.QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

// ===== CRUD OPERATIONS =====

func (r *questionnaireRepository) Create(ctx context.Context, questionnaire *models.Questionnaire) error {
	if err := r.db.WithContext(ctx).Create(questionnaire).Error; err != nil {
		return fmt.Errorf("failed to create questionnaire: %w", err)
	}
	return nil
}

func (r *questionnaireRepository) GetByID(ctx context.Context, id uint) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	if err := r.db.WithContext(ctx).First(&questionnaire, id).Error; err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

func (r *questionnaireRepository) Update(ctx context.Context, questionnaire *models.Questionnaire) error {
	if err := r.db.WithContext(ctx).Save(questionnaire).Error; err != nil {
		return fmt.Errorf("failed to update questionnaire: %w", err)
	}
	return nil
}

func (r *questionnaireRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Questionnaire{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete questionnaire: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *questionnaireRepository) List(ctx context.Context, filters repositories.QuestionnaireFilters) (*repositories.QuestionnaireListResult, error) {
	query := r.db.WithContext(ctx).Model(&models.Questionnaire{})
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count questionnaires: %w", err)
	}

	query = r.applySorting(query, filters)
	query = applyPagination(query, filters.Limit, filters.Offset)

	var questionnaires []*models.Questionnaire
	if err := query.Find(&questionnaires).Error; err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}

	return &repositories.QuestionnaireListResult{
		Questionnaires: questionnaires,
		Total:          total,
		Limit:          filters.Limit,
		Offset:         filters.Offset,
	}, nil
}

func (r *questionnaireRepository) GetByCreator(ctx context.Context, creatorID string, filters repositories.QuestionnaireFilters) (*repositories.QuestionnaireListResult, error) {
	filters.CreatedBy = &creatorID
	return r.List(ctx, filters)
}

// ===== VERSIONING =====

func (r *questionnaireRepository) UpdateStructure(ctx context.Context, id uint, structure []byte) (int, error) {
	var newVersion int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Questionnaire{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"structure": structure,
				"version":   gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update structure: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Questionnaire{}).
			Where("id = ?", id).
			Select("version").
			Scan(&newVersion).Error
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

// ===== STATUS OPERATIONS =====

func (r *questionnaireRepository) UpdateStatus(ctx context.Context, id uint, status models.QuestionnaireStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Questionnaire{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update questionnaire status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *questionnaireRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Questionnaire{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check questionnaire existence: %w", err)
	}
	return count > 0, nil
}

func (r *questionnaireRepository) IsOwner(ctx context.Context, id uint, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Questionnaire{}).
		Where("id = ? AND created_by = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check questionnaire ownership: %w", err)
	}
	return count > 0, nil
}

// ===== HELPER METHODS =====

func (r *questionnaireRepository) applyFilters(query *gorm.DB, filters repositories.QuestionnaireFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Search != nil && *filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+*filters.Search+"%")
	}
	return query
}

func (r *questionnaireRepository) applySorting(query *gorm.DB, filters repositories.QuestionnaireFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "updated_at", "created_at":
	default:
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
