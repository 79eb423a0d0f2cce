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
)

// ScoringService computes and serves score reports for submissions.
// Reads go cache -> score_reports table -> fresh computation; every
// report is keyed to the questionnaire version it was computed against.
type ScoringService interface {
	// GetReport returns the report for the submission against the current
	// questionnaire version, computing and persisting it on a miss.
	GetReport(ctx context.Context, submissionID uint) (*ScoreReportResult, error)

	// Rescore recomputes the report unconditionally, replacing whatever
	// is cached or stored.
	Rescore(ctx context.Context, submissionID uint) (*ScoreReportResult, error)

	// GetReportsForSubmissions resolves reports for a batch of submissions
	// that all belong to the same questionnaire.
	GetReportsForSubmissions(ctx context.Context, submissions []*models.Submission) ([]*ScoreReportResult, error)
}

type scoringService struct {
	repo        repositories.Repository
	reportCache *cache.ReportCache
	publisher   events.EventPublisher
	logger      *slog.Logger
}

func NewScoringService(repo repositories.Repository, reportCache *cache.ReportCache, publisher events.EventPublisher, logger *slog.Logger) ScoringService {
	return &scoringService{
		repo:        repo,
		reportCache: reportCache,
		publisher:   publisher,
		logger:      logger,
	}
}

// ===== DATA STRUCTURES =====

type ScoreReportResult struct {
	SubmissionID    uint                     `json:"submission_id"`
	QuestionnaireID uint                     `json:"questionnaire_id"`
	StudentID       string                   `json:"student_id"`
	TemplateVersion int                      `json:"template_version"`
	OverallScore    float64                  `json:"overall_score"`
	Report          scoring.SubmissionReport `json:"report"`
	CalculatedAt    time.Time                `json:"calculated_at"`
	FromCache       bool                     `json:"-"`
}

// ===== OPERATIONS =====

func (s *scoringService) GetReport(ctx context.Context, submissionID uint) (*ScoreReportResult, error) {
	submission, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	version := submission.Questionnaire.Version

	if cached, _ := s.cachedReport(ctx, submission, version); cached != nil {
		return cached, nil
	}

	stored, err := s.repo.Report().GetBySubmissionVersion(ctx, submissionID, version)
	if err == nil {
		report, decodeErr := stored.DecodePayload()
		if decodeErr == nil {
			result := s.buildResult(submission, version, report, stored.CalculatedAt)
			s.reportCache.Set(ctx, submissionID, version, report)
			return result, nil
		}
		s.logger.Warn("Stored report payload is undecodable, recomputing",
			"submission_id", submissionID, "error", decodeErr)
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load score report: %w", err)
	}

	return s.computeAndStore(ctx, submission, version)
}

func (s *scoringService) Rescore(ctx context.Context, submissionID uint) (*ScoreReportResult, error) {
	submission, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	s.reportCache.Invalidate(ctx, submissionID)
	return s.computeAndStore(ctx, submission, submission.Questionnaire.Version)
}

func (s *scoringService) GetReportsForSubmissions(ctx context.Context, submissions []*models.Submission) ([]*ScoreReportResult, error) {
	results := make([]*ScoreReportResult, 0, len(submissions))
	for _, submission := range submissions {
		result, err := s.GetReport(ctx, submission.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to score submission %d: %w", submission.ID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// ===== HELPER METHODS =====

func (s *scoringService) getSubmission(ctx context.Context, submissionID uint) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByIDWithQuestionnaire(ctx, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

func (s *scoringService) cachedReport(ctx context.Context, submission *models.Submission, version int) (*ScoreReportResult, error) {
	report, err := s.reportCache.Get(ctx, submission.ID, version)
	if err != nil || report == nil {
		return nil, err
	}
	result := s.buildResult(submission, version, *report, time.Time{})
	result.FromCache = true
	return result, nil
}

func (s *scoringService) computeAndStore(ctx context.Context, submission *models.Submission, version int) (*ScoreReportResult, error) {
	structure, err := submission.Questionnaire.DecodeStructure()
	if err != nil {
		return nil, fmt.Errorf("failed to decode questionnaire structure: %w", err)
	}
	answers, err := submission.DecodeAnswers()
	if err != nil {
		return nil, fmt.Errorf("failed to decode submission answers: %w", err)
	}

	report := scoring.ScoreSubmission(answers, structure)
	calculatedAt := time.Now()

	payload, err := models.EncodePayload(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode score report: %w", err)
	}
	row := &models.ScoreReport{
		SubmissionID:    submission.ID,
		TemplateVersion: version,
		OverallScore:    report.OverallScore,
		Payload:         payload,
		CalculatedAt:    calculatedAt,
	}
	if err := s.repo.Report().Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to store score report: %w", err)
	}

	s.reportCache.Set(ctx, submission.ID, version, report)

	event := events.NewSubmissionScoredEvent(
		submission.ID, submission.QuestionnaireID, submission.StudentID,
		version, report.OverallScore, len(report.DomainScores()), calculatedAt)
	if err := s.publisher.PublishScoringEvent(ctx, event); err != nil {
		// Scoring succeeded; losing the event is not worth failing the read.
		s.logger.Warn("Failed to publish submission scored event",
			"submission_id", submission.ID, "error", err)
	}

	return s.buildResult(submission, version, report, calculatedAt), nil
}

func (s *scoringService) buildResult(submission *models.Submission, version int, report scoring.SubmissionReport, calculatedAt time.Time) *ScoreReportResult {
	return &ScoreReportResult{
		SubmissionID:    submission.ID,
		QuestionnaireID: submission.QuestionnaireID,
		StudentID:       submission.StudentID,
		TemplateVersion: version,
		OverallScore:    report.OverallScore,
		Report:          report,
		CalculatedAt:    calculatedAt,
	}
}
