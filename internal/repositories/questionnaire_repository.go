package repositories

import (
	"context"

	"github.com/SAP-F-2025/scoring-service/internal/models"
)

type QuestionnaireRepository interface {
	// ===== CRUD OPERATIONS =====
	Create(ctx context.Context, questionnaire *models.Questionnaire) error
	GetByID(ctx context.Context, id uint) (*models.Questionnaire, error)
	Update(ctx context.Context, questionnaire *models.Questionnaire) error
	Delete(ctx context.Context, id uint) error

	// ===== QUERY OPERATIONS =====
	List(ctx context.Context, filters QuestionnaireFilters) (*QuestionnaireListResult, error)
	GetByCreator(ctx context.Context, creatorID string, filters QuestionnaireFilters) (*QuestionnaireListResult, error)

	// ===== VERSIONING =====

	// UpdateStructure replaces the stored structure and bumps the version
	// in one statement so concurrent editors cannot land on the same
	// version number.
	UpdateStructure(ctx context.Context, id uint, structure []byte) (newVersion int, err error)

	// ===== STATUS OPERATIONS =====
	UpdateStatus(ctx context.Context, id uint, status models.QuestionnaireStatus) error

	// ===== VALIDATION HELPERS =====
	ExistsByID(ctx context.Context, id uint) (bool, error)
	IsOwner(ctx context.Context, id uint, userID string) (bool, error)
}
