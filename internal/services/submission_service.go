package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/scoring-service/internal/cache"
	"github.com/SAP-F-2025/scoring-service/internal/events"
	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
	"github.com/SAP-F-2025/scoring-service/internal/validator"
)

// SubmissionService manages student answer sets
type SubmissionService interface {
	Create(ctx context.Context, req CreateSubmissionRequest, userID string) (*models.Submission, error)
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	List(ctx context.Context, filters repositories.SubmissionFilters) (*repositories.SubmissionListResult, error)
	UpdateAnswers(ctx context.Context, id uint, answers []scoring.Answer, userID string) (*models.Submission, error)
	Delete(ctx context.Context, id uint, userID string) error
}

type submissionService struct {
	repo        repositories.Repository
	reportCache *cache.ReportCache
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewSubmissionService(repo repositories.Repository, reportCache *cache.ReportCache, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) SubmissionService {
	return &submissionService{
		repo:        repo,
		reportCache: reportCache,
		publisher:   publisher,
		logger:      logger,
		validator:   v,
	}
}

// ===== REQUEST STRUCTURES =====

type CreateSubmissionRequest struct {
	QuestionnaireID uint             `json:"questionnaire_id" validate:"required"`
	StudentID       string           `json:"student_id" validate:"required"`
	Answers         []scoring.Answer `json:"answers" validate:"required,min=1"`
	SubmittedAt     *time.Time       `json:"submitted_at"`
}

// ===== OPERATIONS =====

func (s *submissionService) Create(ctx context.Context, req CreateSubmissionRequest, userID string) (*models.Submission, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, req.QuestionnaireID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	if questionnaire.Status != models.QuestionnaireActive {
		return nil, ErrQuestionnaireNotActive
	}

	encoded, err := models.EncodeAnswers(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	submittedAt := time.Now()
	if req.SubmittedAt != nil {
		submittedAt = *req.SubmittedAt
	}

	submission := &models.Submission{
		StudentID:       req.StudentID,
		QuestionnaireID: req.QuestionnaireID,
		TemplateVersion: questionnaire.Version,
		Answers:         encoded,
		SubmittedAt:     submittedAt,
		SubmittedBy:     userID,
	}
	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	event := events.NewSubmissionReceivedEvent(
		submission.ID, submission.QuestionnaireID,
		submission.StudentID, userID, submittedAt)
	if err := s.publisher.PublishScoringEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish submission received event",
			"submission_id", submission.ID, "error", err)
	}

	s.logger.Info("Submission created",
		"submission_id", submission.ID,
		"questionnaire_id", submission.QuestionnaireID,
		"student_id", submission.StudentID)

	return submission, nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

func (s *submissionService) List(ctx context.Context, filters repositories.SubmissionFilters) (*repositories.SubmissionListResult, error) {
	result, err := s.repo.Submission().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return result, nil
}

// UpdateAnswers replaces the whole answer set and drops every report
// derived from the old answers.
func (s *submissionService) UpdateAnswers(ctx context.Context, id uint, answers []scoring.Answer, userID string) (*models.Submission, error) {
	if len(answers) == 0 {
		return nil, ErrSubmissionEmpty
	}

	submission, err := s.getOwned(ctx, id, userID, "update")
	if err != nil {
		return nil, err
	}

	encoded, err := models.EncodeAnswers(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	submission.Answers = encoded

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Submission().Update(ctx, submission); err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}
		if err := txRepo.Report().DeleteBySubmission(ctx, id); err != nil {
			return fmt.Errorf("failed to drop score reports: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.reportCache.Invalidate(ctx, id)
	return submission, nil
}

func (s *submissionService) Delete(ctx context.Context, id uint, userID string) error {
	if _, err := s.getOwned(ctx, id, userID, "delete"); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Report().DeleteBySubmission(ctx, id); err != nil {
			return fmt.Errorf("failed to drop score reports: %w", err)
		}
		if err := txRepo.Submission().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.reportCache.Invalidate(ctx, id)
	s.logger.Info("Submission deleted", "submission_id", id, "deleted_by", userID)
	return nil
}

// ===== HELPER METHODS =====

func (s *submissionService) getOwned(ctx context.Context, id uint, userID, action string) (*models.Submission, error) {
	submission, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission.SubmittedBy != userID {
		isAdmin, err := s.repo.User().HasRole(ctx, userID, models.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to check user role: %w", err)
		}
		if !isAdmin {
			return nil, NewPermissionError(userID, id, "submission", action, "not the submitter")
		}
	}
	return submission, nil
}
