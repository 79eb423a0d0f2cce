package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/scoring-service/internal/cache"
	"github.com/SAP-F-2025/scoring-service/internal/events"
	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
	"github.com/SAP-F-2025/scoring-service/internal/scoring"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
	"github.com/SAP-F-2025/scoring-service/internal/validator"
)

type questionnaireFixture struct {
	repo      *mockRepository
	publisher *events.MockEventPublisher
	memory    *memoryCache
	service   QuestionnaireService
}

func newQuestionnaireFixture() *questionnaireFixture {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	memory := newMemoryCache()
	reportCache := cache.NewReportCache(memory, time.Minute, utils.NewSlogLogger(testLogger()))
	return &questionnaireFixture{
		repo:      repo,
		publisher: publisher,
		memory:    memory,
		service:   NewQuestionnaireService(repo, reportCache, publisher, testLogger(), validator.New()),
	}
}

func scoringReport(overall float64) scoring.SubmissionReport {
	return scoring.SubmissionReport{OverallScore: overall}
}

func draftQuestionnaire(t *testing.T, version int) *models.Questionnaire {
	t.Helper()
	structure, err := models.EncodeStructure(communicationStructure())
	require.NoError(t, err)
	return &models.Questionnaire{
		ID:        7,
		Title:     "Development Assessment",
		Status:    models.QuestionnaireDraft,
		Structure: structure,
		Version:   version,
		CreatedBy: "teacher-1",
	}
}

func TestQuestionnaireService_Create(t *testing.T) {
	fx := newQuestionnaireFixture()

	fx.repo.questionnaire.On("Create", mock.Anything, mock.MatchedBy(func(q *models.Questionnaire) bool {
		return q.Status == models.QuestionnaireDraft && q.Version == 1 && q.CreatedBy == "teacher-1"
	})).Return(nil).Once()

	created, err := fx.service.Create(context.Background(), CreateQuestionnaireRequest{
		Title:     "Development Assessment",
		Structure: communicationStructure(),
	}, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, models.QuestionnaireDraft, created.Status)

	fx.repo.questionnaire.AssertExpectations(t)
}

func TestQuestionnaireService_Create_RejectsInvalidStructure(t *testing.T) {
	fx := newQuestionnaireFixture()

	_, err := fx.service.Create(context.Background(), CreateQuestionnaireRequest{
		Title:     "Broken",
		Structure: []*scoring.QuestionnaireNode{},
	}, "teacher-1")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	fx.repo.questionnaire.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestQuestionnaireService_Create_RejectsDuplicateNodeIDs(t *testing.T) {
	fx := newQuestionnaireFixture()

	structure := communicationStructure()
	structure[0].Children = append(structure[0].Children, structure[0].Children[0])

	_, err := fx.service.Create(context.Background(), CreateQuestionnaireRequest{
		Title:     "Duplicated",
		Structure: structure,
	}, "teacher-1")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestQuestionnaireService_UpdateStructure_InvalidatesStaleReports(t *testing.T) {
	fx := newQuestionnaireFixture()
	questionnaire := draftQuestionnaire(t, 3)

	// Cached reports for two submissions computed against version 3.
	ctx := context.Background()
	reportCache := cache.NewReportCache(fx.memory, time.Minute, utils.NewSlogLogger(testLogger()))
	reportCache.Set(ctx, 11, 3, scoringReport(55))
	reportCache.Set(ctx, 12, 3, scoringReport(60))

	fx.repo.questionnaire.On("GetByID", mock.Anything, uint(7)).Return(questionnaire, nil)
	fx.repo.questionnaire.On("UpdateStructure", mock.Anything, uint(7), mock.Anything).Return(4, nil).Once()
	fx.repo.report.On("DeleteStale", mock.Anything, uint(7), 4).Return([]uint{11, 12}, nil).Once()

	updated, err := fx.service.UpdateStructure(ctx, 7, communicationStructure(), "teacher-1")
	require.NoError(t, err)
	assert.NotNil(t, updated)

	var dropped scoring.SubmissionReport
	assert.Error(t, fx.memory.Get(ctx, cache.ReportKey(11, 3), &dropped))
	assert.Error(t, fx.memory.Get(ctx, cache.ReportKey(12, 3), &dropped))

	published := fx.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventQuestionnaireRevised, published[0].Type)
	assert.Equal(t, events.EventReportInvalidated, published[1].Type)

	fx.repo.report.AssertExpectations(t)
}

func TestQuestionnaireService_Publish(t *testing.T) {
	fx := newQuestionnaireFixture()
	questionnaire := draftQuestionnaire(t, 1)

	fx.repo.questionnaire.On("GetByID", mock.Anything, uint(7)).Return(questionnaire, nil)
	fx.repo.questionnaire.On("UpdateStatus", mock.Anything, uint(7), models.QuestionnaireActive).Return(nil).Once()

	err := fx.service.Publish(context.Background(), 7, "teacher-1")
	require.NoError(t, err)

	published := fx.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionnairePublished, published[0].Type)
}

func TestQuestionnaireService_Publish_RequiresDraft(t *testing.T) {
	fx := newQuestionnaireFixture()
	questionnaire := draftQuestionnaire(t, 1)
	questionnaire.Status = models.QuestionnaireActive

	fx.repo.questionnaire.On("GetByID", mock.Anything, uint(7)).Return(questionnaire, nil)

	err := fx.service.Publish(context.Background(), 7, "teacher-1")
	assert.ErrorIs(t, err, ErrQuestionnaireInvalidStatus)
}

func TestQuestionnaireService_Publish_DeniedForNonOwner(t *testing.T) {
	fx := newQuestionnaireFixture()
	questionnaire := draftQuestionnaire(t, 1)

	fx.repo.questionnaire.On("GetByID", mock.Anything, uint(7)).Return(questionnaire, nil)
	fx.repo.user.On("HasRole", mock.Anything, "intruder", []models.UserRole{models.RoleAdmin}).Return(false, nil)

	err := fx.service.Publish(context.Background(), 7, "intruder")
	require.Error(t, err)

	var pe *PermissionError
	assert.ErrorAs(t, err, &pe)
}

func TestQuestionnaireService_Delete_BlockedBySubmissions(t *testing.T) {
	fx := newQuestionnaireFixture()
	questionnaire := draftQuestionnaire(t, 1)

	fx.repo.questionnaire.On("GetByID", mock.Anything, uint(7)).Return(questionnaire, nil)
	fx.repo.submission.On("GetStats", mock.Anything, uint(7)).Return(&repositories.SubmissionStats{TotalSubmissions: 5}, nil)

	err := fx.service.Delete(context.Background(), 7, "teacher-1")
	assert.ErrorIs(t, err, ErrQuestionnaireNotDeletable)
	fx.repo.questionnaire.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
