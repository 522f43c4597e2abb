package testutil

import (
	"context"
	"time"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListAuthorized(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateDailyGoal(ctx context.Context, userID int64, goal int) error {
	args := m.Called(ctx, userID, goal)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, userID int64, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *MockUserRepository) SelectedTopics(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) ReplaceSelectedTopics(ctx context.Context, userID int64, topicIDs []int64) error {
	args := m.Called(ctx, userID, topicIDs)
	return args.Error(0)
}

// MockRecordRepository is a mock for LearningRecordRepository
type MockRecordRepository struct {
	mock.Mock
}

var _ repository.LearningRecordRepository = (*MockRecordRepository)(nil)

func (m *MockRecordRepository) FindLearningRecord(ctx context.Context, userID, vocabularyID int64) (*domain.LearningRecord, error) {
	args := m.Called(ctx, userID, vocabularyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningRecord), args.Error(1)
}

func (m *MockRecordRepository) UpsertLearningRecord(ctx context.Context, record *domain.LearningRecord) (*domain.LearningRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningRecord), args.Error(1)
}

func (m *MockRecordRepository) QueryLearningRecords(ctx context.Context, filter repository.RecordFilter, limit int, order repository.RecordOrder) ([]domain.LearningRecord, error) {
	args := m.Called(ctx, filter, limit, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LearningRecord), args.Error(1)
}

func (m *MockRecordRepository) CountByStatus(ctx context.Context, userID int64, topicID *int64, level domain.Level) (domain.StatusCounts, error) {
	args := m.Called(ctx, userID, topicID, level)
	return args.Get(0).(domain.StatusCounts), args.Error(1)
}

func (m *MockRecordRepository) CountByTopic(ctx context.Context, userID int64, level domain.Level) (map[int64]domain.TopicCounts, error) {
	args := m.Called(ctx, userID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.TopicCounts), args.Error(1)
}

func (m *MockRecordRepository) CountDue(ctx context.Context, userID int64, asOf time.Time) (int, error) {
	args := m.Called(ctx, userID, asOf)
	return args.Int(0), args.Error(1)
}

// MockVocabularyRepository is a mock for VocabularyRepository
type MockVocabularyRepository struct {
	mock.Mock
}

var _ repository.VocabularyRepository = (*MockVocabularyRepository)(nil)

func (m *MockVocabularyRepository) GetVocabularyByIDs(ctx context.Context, ids []int64) ([]domain.VocabularyItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyRepository) RandomVocabularyExcluding(ctx context.Context, excludeIDs []int64, count int, topicID *int64) ([]domain.VocabularyItem, error) {
	args := m.Called(ctx, excludeIDs, count, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyRepository) UnlearnedVocabulary(ctx context.Context, userID int64, topicID *int64) ([]domain.VocabularyItem, error) {
	args := m.Called(ctx, userID, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyRepository) ListVocabulary(ctx context.Context, q repository.VocabularyQuery) ([]domain.VocabularyItem, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabularyItem), args.Error(1)
}

// MockTopicRepository is a mock for TopicRepository
type MockTopicRepository struct {
	mock.Mock
}

var _ repository.TopicRepository = (*MockTopicRepository)(nil)

func (m *MockTopicRepository) ListActiveTopics(ctx context.Context) ([]domain.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) VocabularyCountsByTopic(ctx context.Context, level domain.Level) (map[int64]int, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

// MockTestResultRepository is a mock for TestResultRepository
type MockTestResultRepository struct {
	mock.Mock
}

var _ repository.TestResultRepository = (*MockTestResultRepository)(nil)

func (m *MockTestResultRepository) SaveTestResult(ctx context.Context, result domain.TestRecord) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
