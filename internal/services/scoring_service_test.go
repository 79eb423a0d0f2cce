package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/scoring-service/internal/cache"
	"github.com/SAP-F-2025/scoring-service/internal/events"
	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func communicationStructure() []*scoring.QuestionnaireNode {
	return []*scoring.QuestionnaireNode{
		{
			ID:    "communication",
			Type:  scoring.NodeGroup,
			Title: "Communication",
			Children: []*scoring.QuestionnaireNode{
				{
					ID:        "eye-contact",
					Type:      scoring.NodeQuestion,
					Title:     "Makes eye contact",
					InputType: scoring.InputSingleChoice,
					Options: []scoring.Option{
						{ID: "never", Value: 1, Label: "Never"},
						{ID: "often", Value: 5, Label: "Often"},
					},
				},
			},
		},
	}
}

func scoredSubmission(t *testing.T, version int) *models.Submission {
	t.Helper()

	structure, err := models.EncodeStructure(communicationStructure())
	require.NoError(t, err)
	answers, err := models.EncodeAnswers([]scoring.Answer{
		{
			QuestionID: "eye-contact",
			NodePath:   []string{"communication", "eye-contact"},
			InputType:  scoring.InputSingleChoice,
			Answer:     "often",
		},
	})
	require.NoError(t, err)

	return &models.Submission{
		ID:              42,
		StudentID:       "student-1",
		QuestionnaireID: 7,
		TemplateVersion: version,
		Answers:         answers,
		SubmittedAt:     time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC),
		Questionnaire: models.Questionnaire{
			ID:        7,
			Title:     "Development Assessment",
			Status:    models.QuestionnaireActive,
			Structure: structure,
			Version:   version,
		},
	}
}

type scoringFixture struct {
	repo      *mockRepository
	publisher *events.MockEventPublisher
	service   ScoringService
}

func newScoringFixture() *scoringFixture {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	reportCache := cache.NewReportCache(newMemoryCache(), time.Minute, utils.NewSlogLogger(testLogger()))
	return &scoringFixture{
		repo:      repo,
		publisher: publisher,
		service:   NewScoringService(repo, reportCache, publisher, testLogger()),
	}
}

func TestScoringService_GetReport_ComputesOnMiss(t *testing.T) {
	fx := newScoringFixture()
	submission := scoredSubmission(t, 3)

	fx.repo.submission.On("GetByIDWithQuestionnaire", mock.Anything, uint(42)).Return(submission, nil)
	fx.repo.report.On("GetBySubmissionVersion", mock.Anything, uint(42), 3).Return(nil, gorm.ErrRecordNotFound).Once()
	fx.repo.report.On("Upsert", mock.Anything, mock.MatchedBy(func(r *models.ScoreReport) bool {
		return r.SubmissionID == 42 && r.TemplateVersion == 3 && r.OverallScore == 100.0
	})).Return(nil).Once()

	result, err := fx.service.GetReport(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.OverallScore)
	assert.Equal(t, 3, result.TemplateVersion)
	assert.Equal(t, "student-1", result.StudentID)
	assert.False(t, result.FromCache)

	published := fx.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSubmissionScored, published[0].Type)

	fx.repo.report.AssertExpectations(t)
}

func TestScoringService_GetReport_SecondReadHitsCache(t *testing.T) {
	fx := newScoringFixture()
	submission := scoredSubmission(t, 3)

	fx.repo.submission.On("GetByIDWithQuestionnaire", mock.Anything, uint(42)).Return(submission, nil)
	fx.repo.report.On("GetBySubmissionVersion", mock.Anything, uint(42), 3).Return(nil, gorm.ErrRecordNotFound).Once()
	fx.repo.report.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := fx.service.GetReport(context.Background(), 42)
	require.NoError(t, err)

	cached, err := fx.service.GetReport(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, 100.0, cached.OverallScore)

	// Upsert and the DB read must not run again.
	fx.repo.report.AssertExpectations(t)
}

func TestScoringService_GetReport_UsesStoredReport(t *testing.T) {
	fx := newScoringFixture()
	submission := scoredSubmission(t, 3)

	report := scoring.SubmissionReport{OverallScore: 86.67}
	payload, err := models.EncodePayload(report)
	require.NoError(t, err)
	stored := &models.ScoreReport{
		SubmissionID:    42,
		TemplateVersion: 3,
		OverallScore:    86.67,
		Payload:         payload,
		CalculatedAt:    time.Date(2025, 4, 11, 10, 0, 0, 0, time.UTC),
	}

	fx.repo.submission.On("GetByIDWithQuestionnaire", mock.Anything, uint(42)).Return(submission, nil)
	fx.repo.report.On("GetBySubmissionVersion", mock.Anything, uint(42), 3).Return(stored, nil).Once()

	result, err := fx.service.GetReport(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 86.67, result.OverallScore)
	assert.Equal(t, stored.CalculatedAt, result.CalculatedAt)
	assert.Empty(t, fx.publisher.GetPublishedEvents(), "stored reports are served without rescoring")
	fx.repo.report.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestScoringService_GetReport_SubmissionNotFound(t *testing.T) {
	fx := newScoringFixture()

	fx.repo.submission.On("GetByIDWithQuestionnaire", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := fx.service.GetReport(context.Background(), 99)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestScoringService_Rescore_SkipsCacheAndStored(t *testing.T) {
	fx := newScoringFixture()
	submission := scoredSubmission(t, 3)

	fx.repo.submission.On("GetByIDWithQuestionnaire", mock.Anything, uint(42)).Return(submission, nil)
	fx.repo.report.On("GetBySubmissionVersion", mock.Anything, uint(42), 3).Return(nil, gorm.ErrRecordNotFound).Once()
	fx.repo.report.On("Upsert", mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := fx.service.GetReport(context.Background(), 42)
	require.NoError(t, err)

	result, err := fx.service.Rescore(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 100.0, result.OverallScore)

	fx.repo.report.AssertExpectations(t)
}
