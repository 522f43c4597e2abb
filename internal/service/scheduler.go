package service

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/metrics"
	"vocabtrainer/internal/repository"

	"go.uber.org/zap"
)

// SchedulerService applies study events to learning records and decides
// which words to show next
type SchedulerService struct {
	records repository.LearningRecordRepository
	vocab   repository.VocabularyRepository
	cache   *cache.Gateway
	metrics metrics.Collector
	logger  *zap.Logger

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(
	records repository.LearningRecordRepository,
	vocab repository.VocabularyRepository,
	gateway *cache.Gateway,
	collector metrics.Collector,
	logger *zap.Logger,
) *SchedulerService {
	return &SchedulerService{
		records: records,
		vocab:   vocab,
		cache:   gateway,
		metrics: collector,
		logger:  logger,
		now:     time.Now,
		shuffle: rand.Shuffle,
	}
}

// WithClock replaces the time source used for new review dates
func (s *SchedulerService) WithClock(now func() time.Time) *SchedulerService {
	s.now = now
	return s
}

// ProcessStudyEvent records one answer for a (user, word) pair. The first
// event creates the record; later events update counters, status and the
// next review date.
func (s *SchedulerService) ProcessStudyEvent(ctx context.Context, userID, vocabularyID int64, quality domain.Quality, responseTimeMs int64) (*domain.LearningRecord, error) {
	saved, err := s.applyStudyEvent(ctx, userID, vocabularyID, quality, responseTimeMs)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateUser(ctx, userID)
	return saved, nil
}

// applyStudyEvent is ProcessStudyEvent without cache invalidation. Callers
// saving several events invalidate once when they are done.
func (s *SchedulerService) applyStudyEvent(ctx context.Context, userID, vocabularyID int64, quality domain.Quality, responseTimeMs int64) (*domain.LearningRecord, error) {
	if userID <= 0 || vocabularyID <= 0 {
		return nil, domain.InvalidArgumentf("invalid ids: user %d, vocabulary %d", userID, vocabularyID)
	}
	if !quality.Valid() {
		return nil, domain.InvalidArgumentf("quality must be between 0 and 5, got %d", quality)
	}
	if responseTimeMs < 0 {
		return nil, domain.InvalidArgumentf("response time must not be negative, got %d", responseTimeMs)
	}

	rec, err := s.records.FindLearningRecord(ctx, userID, vocabularyID)
	if err != nil {
		s.logger.Error("Failed to load learning record",
			zap.Int64("user_id", userID),
			zap.Int64("vocabulary_id", vocabularyID),
			zap.Error(err),
		)
		return nil, domain.Storage("load learning record", err)
	}

	now := s.now()
	if rec == nil {
		rec = domain.NewLearningRecord(userID, vocabularyID, quality, now)
	} else {
		rec.ApplyStudyEvent(quality, now)
	}

	saved, err := s.records.UpsertLearningRecord(ctx, rec)
	if err != nil {
		s.logger.Error("Failed to save learning record",
			zap.Int64("user_id", userID),
			zap.Int64("vocabulary_id", vocabularyID),
			zap.Error(err),
		)
		return nil, domain.Storage("save learning record", err)
	}

	s.metrics.IncCounter(metrics.StudyEvents, 1)
	if responseTimeMs > 0 {
		s.metrics.ObserveHistogram(metrics.ResponseTimeMs, float64(responseTimeMs))
	}
	s.logger.Debug("Study event processed",
		zap.Int64("user_id", userID),
		zap.Int64("vocabulary_id", vocabularyID),
		zap.Int("quality", int(quality)),
		zap.Int64("response_time_ms", responseTimeMs),
		zap.String("status", string(saved.Status)),
		zap.Time("next_review", saved.NextReviewDate),
	)

	return saved, nil
}

// WordsDueForReview returns LEARNING records whose review date is before
// asOf, earliest first
func (s *SchedulerService) WordsDueForReview(ctx context.Context, userID int64, asOf time.Time, limit int) ([]domain.LearningRecord, error) {
	if userID <= 0 {
		return nil, domain.InvalidArgumentf("invalid user id %d", userID)
	}
	if limit <= 0 {
		return nil, domain.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	status := domain.StatusLearning
	records, err := s.records.QueryLearningRecords(ctx, repository.RecordFilter{
		UserID:           userID,
		Status:           &status,
		NextReviewBefore: &asOf,
	}, limit, repository.OrderNextReviewAsc)
	if err != nil {
		return nil, domain.Storage("query due records", err)
	}
	return records, nil
}

// NewWordsForLearning returns up to limit words the user has never studied.
// The candidate pool is ordered by id; it is shuffled only when it holds
// more words than requested.
func (s *SchedulerService) NewWordsForLearning(ctx context.Context, userID int64, limit int, topicID *int64) ([]domain.VocabularyItem, error) {
	if userID <= 0 {
		return nil, domain.InvalidArgumentf("invalid user id %d", userID)
	}
	if limit <= 0 {
		return nil, domain.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	key := s.cache.Keys().NewWordPool(userID, topicID)
	pool, err := cache.Fetch(ctx, s.cache, key, s.cache.TTL().Hot, func(ctx context.Context) ([]domain.VocabularyItem, error) {
		items, err := s.vocab.UnlearnedVocabulary(ctx, userID, topicID)
		if err != nil {
			return nil, domain.Storage("load unlearned vocabulary", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	// pool may be shared with concurrent callers
	words := slices.Clone(pool)
	if len(words) > limit {
		s.shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
		words = words[:limit]
	}
	return words, nil
}
