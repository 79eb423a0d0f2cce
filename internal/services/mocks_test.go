package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/scoring-service/internal/cache"
	"github.com/SAP-F-2025/scoring-service/internal/models"
	"github.com/SAP-F-2025/scoring-service/internal/repositories"
)

// MockQuestionnaireRepository is a mock implementation of QuestionnaireRepository
type MockQuestionnaireRepository struct {
	mock.Mock
}

func (m *MockQuestionnaireRepository) Create(ctx context.Context, questionnaire *models.Questionnaire) error {
	args := m.Called(ctx, questionnaire)
	return args.Error(0)
}

func (m *MockQuestionnaireRepository) GetByID(ctx context.Context, id uint) (*models.Questionnaire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireRepository) Update(ctx context.Context, questionnaire *models.Questionnaire) error {
	args := m.Called(ctx, questionnaire)
	return args.Error(0)
}

func (m *MockQuestionnaireRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionnaireRepository) List(ctx context.Context, filters repositories.QuestionnaireFilters) (*repositories.QuestionnaireListResult, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.QuestionnaireListResult), args.Error(1)
}

func (m *MockQuestionnaireRepository) GetByCreator(ctx context.Context, creatorID string, filters repositories.QuestionnaireFilters) (*repositories.QuestionnaireListResult, error) {
	args := m.Called(ctx, creatorID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.QuestionnaireListResult), args.Error(1)
}

func (m *MockQuestionnaireRepository) UpdateStructure(ctx context.Context, id uint, structure []byte) (int, error) {
	args := m.Called(ctx, id, structure)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionnaireRepository) UpdateStatus(ctx context.Context, id uint, status models.QuestionnaireStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockQuestionnaireRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionnaireRepository) IsOwner(ctx context.Context, id uint, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByIDWithQuestionnaire(ctx context.Context, id uint) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) (*repositories.SubmissionListResult, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.SubmissionListResult), args.Error(1)
}

func (m *MockSubmissionRepository) GetByStudent(ctx context.Context, studentID string, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	args := m.Called(ctx, studentID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByQuestionnaire(ctx context.Context, questionnaireID uint, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	args := m.Called(ctx, questionnaireID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetLatestPerStudent(ctx context.Context, questionnaireID uint, studentIDs []string) ([]*models.Submission, error) {
	args := m.Called(ctx, questionnaireID, studentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetStats(ctx context.Context, questionnaireID uint) (*repositories.SubmissionStats, error) {
	args := m.Called(ctx, questionnaireID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.SubmissionStats), args.Error(1)
}

func (m *MockSubmissionRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockScoreReportRepository is a mock implementation of ScoreReportRepository
type MockScoreReportRepository struct {
	mock.Mock
}

func (m *MockScoreReportRepository) Upsert(ctx context.Context, report *models.ScoreReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockScoreReportRepository) GetByID(ctx context.Context, id uint) (*models.ScoreReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreReport), args.Error(1)
}

func (m *MockScoreReportRepository) GetBySubmissionVersion(ctx context.Context, submissionID uint, templateVersion int) (*models.ScoreReport, error) {
	args := m.Called(ctx, submissionID, templateVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreReport), args.Error(1)
}

func (m *MockScoreReportRepository) GetBySubmissionIDs(ctx context.Context, submissionIDs []uint, templateVersion int) ([]*models.ScoreReport, error) {
	args := m.Called(ctx, submissionIDs, templateVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoreReport), args.Error(1)
}

func (m *MockScoreReportRepository) DeleteStale(ctx context.Context, questionnaireID uint, currentVersion int) ([]uint, error) {
	args := m.Called(ctx, questionnaireID, currentVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockScoreReportRepository) DeleteBySubmission(ctx context.Context, submissionID uint) error {
	args := m.Called(ctx, submissionID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) HasRole(ctx context.Context, id string, roles ...models.UserRole) (bool, error) {
	args := m.Called(ctx, id, roles)
	return args.Bool(0), args.Error(1)
}

// mockRepository bundles the individual mocks behind the Repository facade
type mockRepository struct {
	questionnaire *MockQuestionnaireRepository
	submission    *MockSubmissionRepository
	report        *MockScoreReportRepository
	user          *MockUserRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		questionnaire: new(MockQuestionnaireRepository),
		submission:    new(MockSubmissionRepository),
		report:        new(MockScoreReportRepository),
		user:          new(MockUserRepository),
	}
}

func (m *mockRepository) Questionnaire() repositories.QuestionnaireRepository { return m.questionnaire }
func (m *mockRepository) Submission() repositories.SubmissionRepository      { return m.submission }
func (m *mockRepository) Report() repositories.ScoreReportRepository         { return m.report }
func (m *mockRepository) User() repositories.UserRepository                  { return m.user }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// memoryCache is an in-memory CacheService for exercising the report cache
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	raw, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := pattern
	if len(prefix) > 0 && prefix[len(prefix)-1] == '*' {
		prefix = prefix[:len(prefix)-1]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
	return nil
}
