package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/scoring-service/internal/cache"
	"github.com/SAP-F-2025/scoring-service/internal/events"
	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
	"github.com/SAP-F-2025/scoring-service/internal/validator"
)

// QuestionnaireService manages assessment templates and their lifecycle
type QuestionnaireService interface {
	// CRUD
	Create(ctx context.Context, req CreateQuestionnaireRequest, userID string) (*models.Questionnaire, error)
	GetByID(ctx context.Context, id uint) (*models.Questionnaire, error)
	List(ctx context.Context, filters repositories.QuestionnaireFilters) (*repositories.QuestionnaireListResult, error)
	Update(ctx context.Context, id uint, req UpdateQuestionnaireRequest, userID string) (*models.Questionnaire, error)
	Delete(ctx context.Context, id uint, userID string) error

	// Structure editing
	UpdateStructure(ctx context.Context, id uint, structure []*scoring.QuestionnaireNode, userID string) (*models.Questionnaire, error)

	// Lifecycle
	Publish(ctx context.Context, id uint, userID string) error
	Archive(ctx context.Context, id uint, userID string) error
}

type questionnaireService struct {
	repo        repositories.Repository
	reportCache *cache.ReportCache
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewQuestionnaireService(repo repositories.Repository, reportCache *cache.ReportCache, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) QuestionnaireService {
	return &questionnaireService{
		repo:        repo,
		reportCache: reportCache,
		publisher:   publisher,
		logger:      logger,
		validator:   v,
	}
}

// ===== REQUEST STRUCTURES =====

type CreateQuestionnaireRequest struct {
	Title       string                       `json:"title" validate:"required,min=1,max=200"`
	Description *string                      `json:"description" validate:"omitempty,max=1000"`
	Structure   []*scoring.QuestionnaireNode `json:"structure" validate:"required"`
}

type UpdateQuestionnaireRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ===== CRUD OPERATIONS =====

func (s *questionnaireService) Create(ctx context.Context, req CreateQuestionnaireRequest, userID string) (*models.Questionnaire, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}
	if errs := s.validator.ValidateStructure(req.Structure); len(errs) > 0 {
		return nil, errs
	}

	structure, err := models.EncodeStructure(req.Structure)
	if err != nil {
		return nil, fmt.Errorf("failed to encode structure: %w", err)
	}

	questionnaire := &models.Questionnaire{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.QuestionnaireDraft,
		Structure:   structure,
		Version:     1,
		CreatedBy:   userID,
	}
	if err := s.repo.Questionnaire().Create(ctx, questionnaire); err != nil {
		return nil, fmt.Errorf("failed to create questionnaire: %w", err)
	}

	s.logger.Info("Questionnaire created",
		"questionnaire_id", questionnaire.ID,
		"title", questionnaire.Title,
		"created_by", userID)

	return questionnaire, nil
}

func (s *questionnaireService) GetByID(ctx context.Context, id uint) (*models.Questionnaire, error) {
	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	return questionnaire, nil
}

func (s *questionnaireService) List(ctx context.Context, filters repositories.QuestionnaireFilters) (*repositories.QuestionnaireListResult, error) {
	result, err := s.repo.Questionnaire().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	return result, nil
}

func (s *questionnaireService) Update(ctx context.Context, id uint, req UpdateQuestionnaireRequest, userID string) (*models.Questionnaire, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	questionnaire, err := s.getEditable(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		questionnaire.Title = *req.Title
	}
	if req.Description != nil {
		questionnaire.Description = req.Description
	}
	if err := s.repo.Questionnaire().Update(ctx, questionnaire); err != nil {
		return nil, fmt.Errorf("failed to update questionnaire: %w", err)
	}
	return questionnaire, nil
}

func (s *questionnaireService) Delete(ctx context.Context, id uint, userID string) error {
	if _, err := s.getEditable(ctx, id, userID, "delete"); err != nil {
		return err
	}

	stats, err := s.repo.Submission().GetStats(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check questionnaire submissions: %w", err)
	}
	if stats.TotalSubmissions > 0 {
		return ErrQuestionnaireNotDeletable
	}

	if err := s.repo.Questionnaire().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete questionnaire: %w", err)
	}
	s.logger.Info("Questionnaire deleted", "questionnaire_id", id, "deleted_by", userID)
	return nil
}

// ===== STRUCTURE EDITING =====

// UpdateStructure replaces the template structure, bumps the version and
// invalidates every report computed against older versions.
func (s *questionnaireService) UpdateStructure(ctx context.Context, id uint, structure []*scoring.QuestionnaireNode, userID string) (*models.Questionnaire, error) {
	if errs := s.validator.ValidateStructure(structure); len(errs) > 0 {
		return nil, errs
	}

	questionnaire, err := s.getEditable(ctx, id, userID, "update structure")
	if err != nil {
		return nil, err
	}
	oldVersion := questionnaire.Version

	encoded, err := models.EncodeStructure(structure)
	if err != nil {
		return nil, fmt.Errorf("failed to encode structure: %w", err)
	}
	newVersion, err := s.repo.Questionnaire().UpdateStructure(ctx, id, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to update structure: %w", err)
	}

	staleSubmissions, err := s.repo.Report().DeleteStale(ctx, id, newVersion)
	if err != nil {
		// Stale rows are harmless: they are keyed to dead versions and the
		// next read recomputes. Log and continue.
		s.logger.Warn("Failed to delete stale score reports",
			"questionnaire_id", id, "error", err)
	}
	s.reportCache.InvalidateMany(ctx, staleSubmissions)

	s.publishEvent(ctx, events.NewQuestionnaireRevisedEvent(id, oldVersion, newVersion))
	if len(staleSubmissions) > 0 {
		s.publishEvent(ctx, events.NewReportInvalidatedEvent(id, newVersion, staleSubmissions, "structure updated"))
	}

	s.logger.Info("Questionnaire structure updated",
		"questionnaire_id", id,
		"old_version", oldVersion,
		"new_version", newVersion,
		"invalidated_reports", len(staleSubmissions))

	return s.GetByID(ctx, id)
}

// ===== LIFECYCLE =====

func (s *questionnaireService) Publish(ctx context.Context, id uint, userID string) error {
	questionnaire, err := s.getOwned(ctx, id, userID, "publish")
	if err != nil {
		return err
	}
	if questionnaire.Status != models.QuestionnaireDraft {
		return ErrQuestionnaireInvalidStatus
	}

	structure, err := questionnaire.DecodeStructure()
	if err != nil {
		return fmt.Errorf("failed to decode structure: %w", err)
	}
	if errs := s.validator.ValidateStructure(structure); len(errs) > 0 {
		return errs
	}

	if err := s.repo.Questionnaire().UpdateStatus(ctx, id, models.QuestionnaireActive); err != nil {
		return fmt.Errorf("failed to publish questionnaire: %w", err)
	}

	s.publishEvent(ctx, events.NewQuestionnairePublishedEvent(id, questionnaire.Title, questionnaire.Version, userID))
	return nil
}

func (s *questionnaireService) Archive(ctx context.Context, id uint, userID string) error {
	questionnaire, err := s.getOwned(ctx, id, userID, "archive")
	if err != nil {
		return err
	}
	if questionnaire.Status == models.QuestionnaireArchived {
		return nil
	}
	if err := s.repo.Questionnaire().UpdateStatus(ctx, id, models.QuestionnaireArchived); err != nil {
		return fmt.Errorf("failed to archive questionnaire: %w", err)
	}
	return nil
}

// ===== HELPER METHODS =====

func (s *questionnaireService) getOwned(ctx context.Context, id uint, userID, action string) (*models.Questionnaire, error) {
	questionnaire, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if questionnaire.CreatedBy != userID {
		isAdmin, err := s.repo.User().HasRole(ctx, userID, models.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to check user role: %w", err)
		}
		if !isAdmin {
			return nil, NewPermissionError(userID, id, "questionnaire", action, "not the owner")
		}
	}
	return questionnaire, nil
}

func (s *questionnaireService) getEditable(ctx context.Context, id uint, userID, action string) (*models.Questionnaire, error) {
	questionnaire, err := s.getOwned(ctx, id, userID, action)
	if err != nil {
		return nil, err
	}
	if questionnaire.Status == models.QuestionnaireArchived {
		return nil, ErrQuestionnaireNotEditable
	}
	return questionnaire, nil
}

func (s *questionnaireService) publishEvent(ctx context.Context, event *events.ScoringEvent) {
	if err := s.publisher.PublishScoringEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
