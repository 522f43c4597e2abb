package testutil

import (
	"context"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/repository"
)

type recordKey struct {
	userID       int64
	vocabularyID int64
}

// MemoryStore is an in-memory implementation of the record, vocabulary,
// topic and test result repositories. Calls counts invocations per method.
type MemoryStore struct {
	mu         sync.Mutex
	records    map[recordKey]domain.LearningRecord
	vocabulary []domain.VocabularyItem
	topics     []domain.Topic
	results    []domain.TestRecord
	calls      map[string]int
}

var (
	_ repository.LearningRecordRepository = (*MemoryStore)(nil)
	_ repository.VocabularyRepository     = (*MemoryStore)(nil)
	_ repository.TopicRepository          = (*MemoryStore)(nil)
	_ repository.TestResultRepository     = (*MemoryStore)(nil)
)

// NewMemoryStore creates a store holding the given vocabulary and topics
func NewMemoryStore(vocabulary []domain.VocabularyItem, topics []domain.Topic) *MemoryStore {
	vocab := slices.Clone(vocabulary)
	sort.Slice(vocab, func(i, j int) bool { return vocab[i].ID < vocab[j].ID })
	return &MemoryStore{
		records:    make(map[recordKey]domain.LearningRecord),
		vocabulary: vocab,
		topics:     slices.Clone(topics),
		calls:      make(map[string]int),
	}
}

// Calls returns how many times method was invoked
func (s *MemoryStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// PutRecord stores a record directly, bypassing upsert semantics
func (s *MemoryStore) PutRecord(rec domain.LearningRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{rec.UserID, rec.VocabularyID}] = rec
}

// Results returns the saved test results
func (s *MemoryStore) Results() []domain.TestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

func (s *MemoryStore) called(method string) {
	s.calls[method]++
}

func (s *MemoryStore) item(id int64) (domain.VocabularyItem, bool) {
	i, found := sort.Find(len(s.vocabulary), func(i int) int {
		switch {
		case id < s.vocabulary[i].ID:
			return -1
		case id > s.vocabulary[i].ID:
			return 1
		}
		return 0
	})
	if !found {
		return domain.VocabularyItem{}, false
	}
	return s.vocabulary[i], true
}

func (s *MemoryStore) FindLearningRecord(_ context.Context, userID, vocabularyID int64) (*domain.LearningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("FindLearningRecord")

	rec, ok := s.records[recordKey{userID, vocabularyID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) UpsertLearningRecord(_ context.Context, record *domain.LearningRecord) (*domain.LearningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("UpsertLearningRecord")

	key := recordKey{record.UserID, record.VocabularyID}
	rec := *record
	if existing, ok := s.records[key]; ok {
		rec.FirstLearnedDate = existing.FirstLearnedDate
	}
	s.records[key] = rec
	return &rec, nil
}

func (s *MemoryStore) QueryLearningRecords(_ context.Context, filter repository.RecordFilter, limit int, order repository.RecordOrder) ([]domain.LearningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("QueryLearningRecords")

	var out []domain.LearningRecord
	for key, rec := range s.records {
		if key.userID != filter.UserID {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		if filter.NextReviewBefore != nil && !rec.NextReviewDate.Before(*filter.NextReviewBefore) {
			continue
		}
		if filter.TopicID != nil {
			item, ok := s.item(rec.VocabularyID)
			if !ok || !item.InTopic(*filter.TopicID) {
				continue
			}
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if order == repository.OrderLastReviewedDesc {
			if !a.LastReviewedAt.Equal(b.LastReviewedAt) {
				return a.LastReviewedAt.After(b.LastReviewedAt)
			}
		} else if !a.NextReviewDate.Equal(b.NextReviewDate) {
			return a.NextReviewDate.Before(b.NextReviewDate)
		}
		return a.VocabularyID < b.VocabularyID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CountByStatus(_ context.Context, userID int64, topicID *int64, level domain.Level) (domain.StatusCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("CountByStatus")

	counts := domain.StatusCounts{ByStatus: make(map[domain.Status]int)}
	for key, rec := range s.records {
		if key.userID != userID {
			continue
		}
		item, ok := s.item(rec.VocabularyID)
		if !ok {
			continue
		}
		if topicID != nil && !item.InTopic(*topicID) {
			continue
		}
		if level != "" && item.Level != level {
			continue
		}
		counts.ByStatus[rec.Status]++
		counts.CorrectTotal += rec.CorrectCount
		counts.IncorrectTotal += rec.IncorrectCount
	}
	return counts, nil
}

func (s *MemoryStore) CountByTopic(_ context.Context, userID int64, level domain.Level) (map[int64]domain.TopicCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("CountByTopic")

	counts := make(map[int64]domain.TopicCounts)
	for key, rec := range s.records {
		if key.userID != userID {
			continue
		}
		item, ok := s.item(rec.VocabularyID)
		if !ok || item.TopicID == nil || (level != "" && item.Level != level) {
			continue
		}
		c := counts[*item.TopicID]
		c.Learned++
		if rec.Status == domain.StatusMastered {
			c.Mastered++
		}
		counts[*item.TopicID] = c
	}
	return counts, nil
}

func (s *MemoryStore) CountDue(_ context.Context, userID int64, asOf time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("CountDue")

	n := 0
	for key, rec := range s.records {
		if key.userID == userID && rec.Status == domain.StatusLearning && rec.DueAt(asOf) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) GetVocabularyByIDs(_ context.Context, ids []int64) ([]domain.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("GetVocabularyByIDs")

	var out []domain.VocabularyItem
	for _, item := range s.vocabulary {
		if slices.Contains(ids, item.ID) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *MemoryStore) RandomVocabularyExcluding(_ context.Context, excludeIDs []int64, count int, topicID *int64) ([]domain.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("RandomVocabularyExcluding")

	var pool []domain.VocabularyItem
	for _, item := range s.vocabulary {
		if slices.Contains(excludeIDs, item.ID) {
			continue
		}
		if topicID != nil && !item.InTopic(*topicID) {
			continue
		}
		pool = append(pool, item)
	}
	if len(pool) > count {
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		pool = pool[:count]
	}
	return pool, nil
}

func (s *MemoryStore) UnlearnedVocabulary(_ context.Context, userID int64, topicID *int64) ([]domain.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("UnlearnedVocabulary")

	var out []domain.VocabularyItem
	for _, item := range s.vocabulary {
		if _, seen := s.records[recordKey{userID, item.ID}]; seen {
			continue
		}
		if topicID != nil && !item.InTopic(*topicID) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *MemoryStore) ListVocabulary(_ context.Context, q repository.VocabularyQuery) ([]domain.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("ListVocabulary")

	var matched []domain.VocabularyItem
	for _, item := range s.vocabulary {
		if q.TopicID != nil && !item.InTopic(*q.TopicID) {
			continue
		}
		if q.Level != "" && item.Level != q.Level {
			continue
		}
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Word < matched[j].Word })

	if q.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[q.Offset:]
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) ListActiveTopics(_ context.Context) ([]domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("ListActiveTopics")

	var out []domain.Topic
	for _, t := range s.topics {
		if t.Active {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *MemoryStore) VocabularyCountsByTopic(_ context.Context, level domain.Level) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("VocabularyCountsByTopic")

	counts := make(map[int64]int)
	for _, item := range s.vocabulary {
		if item.TopicID == nil || (level != "" && item.Level != level) {
			continue
		}
		counts[*item.TopicID]++
	}
	return counts, nil
}

func (s *MemoryStore) SaveTestResult(_ context.Context, result domain.TestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called("SaveTestResult")

	s.results = append(s.results, result)
	return nil
}
