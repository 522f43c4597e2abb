package testutil

import (
	"fmt"
	"testing"
	"time"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Name:       fmt.Sprintf("user%d", userID),
		DailyGoal:  domain.DefaultDailyGoal,
		Authorized: authorized,
		CreatedAt:  time.Now(),
	}
}

// NewTestItem creates a vocabulary item. A zero topicID means no topic.
func NewTestItem(id int64, word, meaning string, topicID int64) domain.VocabularyItem {
	item := domain.VocabularyItem{
		ID:           id,
		Word:         word,
		Meaning:      meaning,
		PartOfSpeech: "noun",
		Level:        domain.LevelBeginner,
	}
	if topicID != 0 {
		item.TopicID = &topicID
	}
	return item
}

// NewTestVocabulary creates n items numbered from 1, spread round-robin
// over the given topics
func NewTestVocabulary(n int, topicIDs ...int64) []domain.VocabularyItem {
	items := make([]domain.VocabularyItem, 0, n)
	for i := 1; i <= n; i++ {
		var topic int64
		if len(topicIDs) > 0 {
			topic = topicIDs[(i-1)%len(topicIDs)]
		}
		items = append(items, NewTestItem(int64(i), fmt.Sprintf("word%d", i), fmt.Sprintf("meaning%d", i), topic))
	}
	return items
}

// NewTestTopic creates an active topic
func NewTestTopic(id int64, name string, order int) domain.Topic {
	return domain.Topic{ID: id, Name: name, DisplayOrder: order, Active: true}
}

// NewTestRecord creates a learning record reviewed at reviewedAt
func NewTestRecord(userID, vocabularyID int64, status domain.Status, reviewedAt time.Time) domain.LearningRecord {
	return domain.LearningRecord{
		UserID:           userID,
		VocabularyID:     vocabularyID,
		Status:           status,
		CorrectCount:     1,
		FirstLearnedDate: reviewedAt,
		LastReviewedAt:   reviewedAt,
		NextReviewDate:   reviewedAt.AddDate(0, 0, 2),
	}
}

// NewTestGateway returns a gateway backed by an in-process Redis server
func NewTestGateway(t testing.TB) (*cache.Gateway, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := cache.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { store.Close() })
	return cache.NewGateway(store, cache.NewKeys("test:"), cache.DefaultTTLPolicy(), NewTestLogger(), metrics.NewNoop()), mr
}

// NewNilGateway returns a gateway that never caches
func NewNilGateway() *cache.Gateway {
	return cache.NewGateway(cache.NilStore{}, cache.NewKeys("test:"), cache.DefaultTTLPolicy(), NewTestLogger(), metrics.NewNoop())
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
