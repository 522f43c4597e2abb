package service

import (
	"context"
	"strconv"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/repository"

	"go.uber.org/zap"
)

// TopicSelector returns the topics a user follows
type TopicSelector interface {
	SelectedTopics(ctx context.Context, userID int64) ([]int64, error)
}

// ProgressService derives summary statistics from learning records.
// Results are computed from the repositories and cached as copies.
type ProgressService struct {
	records  repository.LearningRecordRepository
	topics   repository.TopicRepository
	selector TopicSelector
	cache    *cache.Gateway
	logger   *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(
	records repository.LearningRecordRepository,
	topics repository.TopicRepository,
	selector TopicSelector,
	gateway *cache.Gateway,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		records:  records,
		topics:   topics,
		selector: selector,
		cache:    gateway,
		logger:   logger,
	}
}

// UserProgress counts the user's records by status, optionally within one topic
func (s *ProgressService) UserProgress(ctx context.Context, userID int64, topicID *int64) (domain.UserProgress, error) {
	if userID <= 0 {
		return domain.UserProgress{}, domain.InvalidArgumentf("invalid user id %d", userID)
	}

	key := s.cache.Keys().UserProgress(userID, topicID)
	return cache.FetchRecord(ctx, s.cache, key, s.cache.TTL().UserProgress, func(ctx context.Context) (domain.UserProgress, error) {
		counts, err := s.records.CountByStatus(ctx, userID, topicID, "")
		if err != nil {
			return domain.UserProgress{}, domain.Storage("count records by status", err)
		}
		return domain.NewUserProgress(counts), nil
	})
}

// MasteryPercentage returns the share of the user's learned words that are mastered
func (s *ProgressService) MasteryPercentage(ctx context.Context, userID int64) (int, error) {
	if userID > 0 {
		key := s.cache.Keys().UserProgress(userID, nil)
		if raw, ok := s.cache.ReadRecordField(ctx, key, "mastery_percentage"); ok {
			if pct, err := strconv.Atoi(raw); err == nil {
				return pct, nil
			}
		}
	}

	progress, err := s.UserProgress(ctx, userID, nil)
	if err != nil {
		return 0, err
	}
	return progress.MasteryPercentage, nil
}

// TopicsWithProgress lists every active topic with the user's learned and
// mastered counts. Selected marks topics in selectedTopics; when
// selectedTopics is nil the user's stored selection is used.
func (s *ProgressService) TopicsWithProgress(ctx context.Context, userID int64, selectedTopics []int64, level domain.Level) ([]domain.TopicProgressView, error) {
	if userID <= 0 {
		return nil, domain.InvalidArgumentf("invalid user id %d", userID)
	}
	level, err := domain.ParseLevel(string(level))
	if err != nil {
		return nil, err
	}

	keys, ttl := s.cache.Keys(), s.cache.TTL()

	topics, err := cache.Fetch(ctx, s.cache, keys.TopicList(), ttl.Listing, func(ctx context.Context) ([]domain.Topic, error) {
		topics, err := s.topics.ListActiveTopics(ctx)
		if err != nil {
			return nil, domain.Storage("list topics", err)
		}
		return topics, nil
	})
	if err != nil {
		return nil, err
	}

	totals, err := cache.Fetch(ctx, s.cache, keys.TopicStats(level), ttl.TopicStats, func(ctx context.Context) (map[int64]int, error) {
		totals, err := s.topics.VocabularyCountsByTopic(ctx, level)
		if err != nil {
			return nil, domain.Storage("count vocabulary by topic", err)
		}
		return totals, nil
	})
	if err != nil {
		return nil, err
	}

	learned, err := cache.Fetch(ctx, s.cache, keys.UserTopicCounts(userID, level), ttl.UserProgress, func(ctx context.Context) (map[int64]domain.TopicCounts, error) {
		counts, err := s.records.CountByTopic(ctx, userID, level)
		if err != nil {
			return nil, domain.Storage("count records by topic", err)
		}
		return counts, nil
	})
	if err != nil {
		return nil, err
	}

	if selectedTopics == nil {
		if selectedTopics, err = s.selector.SelectedTopics(ctx, userID); err != nil {
			return nil, err
		}
	}
	selected := make(map[int64]bool, len(selectedTopics))
	for _, id := range selectedTopics {
		selected[id] = true
	}

	views := make([]domain.TopicProgressView, 0, len(topics))
	for _, t := range topics {
		c := learned[t.ID]
		views = append(views, domain.TopicProgressView{
			Topic:             t,
			VocabularyCount:   totals[t.ID],
			Learned:           c.Learned,
			Mastered:          c.Mastered,
			MasteryPercentage: domain.Percent(c.Mastered, c.Learned),
			Selected:          selected[t.ID],
		})
	}
	return views, nil
}
