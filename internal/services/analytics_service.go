package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/scoring-service/internal/repositories"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
)

// AnalyticsService aggregates score reports across submissions: per-student
// progress over time and per-questionnaire class statistics.
type AnalyticsService interface {
	// Student analytics
	GetStudentTrends(ctx context.Context, studentID string, questionnaireID uint, timeRange TimeRange) (*StudentTrendReport, error)

	// Class analytics
	GetClassStatistics(ctx context.Context, questionnaireID uint, studentIDs []string) (*ClassStatisticsReport, error)
}

type analyticsService struct {
	repo    repositories.Repository
	scoring ScoringService
	logger  *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, scoringService ScoringService, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:    repo,
		scoring: scoringService,
		logger:  logger,
	}
}

// ===== DATA STRUCTURES =====

type TimeRange struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type StudentTrendReport struct {
	StudentID       string                `json:"student_id"`
	QuestionnaireID uint                  `json:"questionnaire_id"`
	SubmissionCount int                   `json:"submission_count"`
	DomainTrends    []scoring.DomainTrend `json:"domain_trends"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

type ClassStatisticsReport struct {
	QuestionnaireID uint                            `json:"questionnaire_id"`
	TemplateVersion int                             `json:"template_version"`
	StudentCount    int                             `json:"student_count"`
	OverallAverage  float64                         `json:"overall_average"`
	Domains         []scoring.AggregatedDomainScore `json:"domains"`
	GeneratedAt     time.Time                       `json:"generated_at"`
}

// ===== STUDENT ANALYTICS =====

func (s *analyticsService) GetStudentTrends(ctx context.Context, studentID string, questionnaireID uint, timeRange TimeRange) (*StudentTrendReport, error) {
	filters := repositories.SubmissionFilters{
		QuestionnaireID: &questionnaireID,
		DateFrom:        timeRange.StartDate,
		DateTo:          timeRange.EndDate,
	}
	submissions, err := s.repo.Submission().GetByStudent(ctx, studentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get student submissions: %w", err)
	}

	results, err := s.scoring.GetReportsForSubmissions(ctx, submissions)
	if err != nil {
		return nil, err
	}

	timed := make([]scoring.TimedReport, 0, len(results))
	for i, result := range results {
		timed = append(timed, scoring.TimedReport{
			SubmittedAt: submissions[i].SubmittedAt,
			Report:      result.Report,
		})
	}

	return &StudentTrendReport{
		StudentID:       studentID,
		QuestionnaireID: questionnaireID,
		SubmissionCount: len(submissions),
		DomainTrends:    scoring.TrendOverTime(timed),
		GeneratedAt:     time.Now(),
	}, nil
}

// ===== CLASS ANALYTICS =====

// GetClassStatistics aggregates each student's latest submission, so a
// student who was assessed five times counts once.
func (s *analyticsService) GetClassStatistics(ctx context.Context, questionnaireID uint, studentIDs []string) (*ClassStatisticsReport, error) {
	questionnaire, err := s.repo.Questionnaire().GetByID(ctx, questionnaireID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}

	submissions, err := s.repo.Submission().GetLatestPerStudent(ctx, questionnaireID, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest submissions: %w", err)
	}

	results, err := s.scoring.GetReportsForSubmissions(ctx, submissions)
	if err != nil {
		return nil, err
	}

	var overallSum float64
	perSubmission := make([][]scoring.NodeScore, 0, len(results))
	for _, result := range results {
		overallSum += result.OverallScore
		perSubmission = append(perSubmission, result.Report.NodeScores)
	}
	overallAverage := 0.0
	if len(results) > 0 {
		overallAverage = overallSum / float64(len(results))
	}

	return &ClassStatisticsReport{
		QuestionnaireID: questionnaireID,
		TemplateVersion: questionnaire.Version,
		StudentCount:    len(submissions),
		OverallAverage:  overallAverage,
		Domains:         scoring.Aggregate(perSubmission),
		GeneratedAt:     time.Now(),
	}, nil
}
