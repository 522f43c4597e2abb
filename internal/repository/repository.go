package repository

import (
	"context"
	"time"

	"vocabtrainer/internal/domain"
)

// RecordOrder selects the ordering of a learning record query
type RecordOrder int

const (
	OrderNextReviewAsc RecordOrder = iota
	OrderLastReviewedDesc
)

// RecordFilter narrows a learning record query. Nil fields are ignored.
type RecordFilter struct {
	UserID           int64
	Status           *domain.Status
	NextReviewBefore *time.Time
	TopicID          *int64
}

// VocabularyQuery pages through vocabulary items
type VocabularyQuery struct {
	TopicID *int64
	Level   domain.Level
	Limit   int
	Offset  int
}

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AuthorizeUser(ctx context.Context, userID int64) error
	EnsureUserExists(ctx context.Context, userID int64) error
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	ListAuthorized(ctx context.Context) ([]domain.User, error)
	UpdateDailyGoal(ctx context.Context, userID int64, goal int) error
	UpdateName(ctx context.Context, userID int64, name string) error
	SelectedTopics(ctx context.Context, userID int64) ([]int64, error)
	ReplaceSelectedTopics(ctx context.Context, userID int64, topicIDs []int64) error
}

// LearningRecordRepository is the durable per-(user, word) state
type LearningRecordRepository interface {
	FindLearningRecord(ctx context.Context, userID, vocabularyID int64) (*domain.LearningRecord, error)
	UpsertLearningRecord(ctx context.Context, record *domain.LearningRecord) (*domain.LearningRecord, error)
	QueryLearningRecords(ctx context.Context, filter RecordFilter, limit int, order RecordOrder) ([]domain.LearningRecord, error)
	CountByStatus(ctx context.Context, userID int64, topicID *int64, level domain.Level) (domain.StatusCounts, error)
	CountByTopic(ctx context.Context, userID int64, level domain.Level) (map[int64]domain.TopicCounts, error)
	CountDue(ctx context.Context, userID int64, asOf time.Time) (int, error)
}

// VocabularyRepository defines read operations on vocabulary items
type VocabularyRepository interface {
	GetVocabularyByIDs(ctx context.Context, ids []int64) ([]domain.VocabularyItem, error)
	RandomVocabularyExcluding(ctx context.Context, excludeIDs []int64, count int, topicID *int64) ([]domain.VocabularyItem, error)
	UnlearnedVocabulary(ctx context.Context, userID int64, topicID *int64) ([]domain.VocabularyItem, error)
	ListVocabulary(ctx context.Context, q VocabularyQuery) ([]domain.VocabularyItem, error)
}

// TopicRepository defines read operations on topics
type TopicRepository interface {
	ListActiveTopics(ctx context.Context) ([]domain.Topic, error)
	VocabularyCountsByTopic(ctx context.Context, level domain.Level) (map[int64]int, error)
}

// TestResultRepository stores graded test history
type TestResultRepository interface {
	SaveTestResult(ctx context.Context, result domain.TestRecord) error
}
