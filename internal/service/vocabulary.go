package service

import (
	"context"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/repository"
)

// VocabularyPageSize is the number of items on one listing page
const VocabularyPageSize = 10

// VocabularyPage is one page of the vocabulary listing
type VocabularyPage struct {
	Items   []domain.VocabularyItem `json:"items"`
	Page    int                     `json:"page"`
	HasNext bool                    `json:"has_next"`
}

// VocabularyService handles vocabulary browsing
type VocabularyService struct {
	vocab repository.VocabularyRepository
	cache *cache.Gateway
}

// NewVocabularyService creates a new vocabulary service
func NewVocabularyService(vocab repository.VocabularyRepository, gateway *cache.Gateway) *VocabularyService {
	return &VocabularyService{vocab: vocab, cache: gateway}
}

// ListVocabulary returns a page of vocabulary ordered by word. Pages start at 1.
func (s *VocabularyService) ListVocabulary(ctx context.Context, topicID *int64, level domain.Level, page int) (VocabularyPage, error) {
	level, err := domain.ParseLevel(string(level))
	if err != nil {
		return VocabularyPage{}, err
	}
	if page < 1 {
		page = 1
	}

	key := s.cache.Keys().VocabularyPage(topicID, level, page)
	return cache.Fetch(ctx, s.cache, key, s.cache.TTL().Listing, func(ctx context.Context) (VocabularyPage, error) {
		// One extra row tells whether another page exists
		items, err := s.vocab.ListVocabulary(ctx, repository.VocabularyQuery{
			TopicID: topicID,
			Level:   level,
			Limit:   VocabularyPageSize + 1,
			Offset:  (page - 1) * VocabularyPageSize,
		})
		if err != nil {
			return VocabularyPage{}, domain.Storage("list vocabulary", err)
		}

		p := VocabularyPage{Page: page, Items: items}
		if len(items) > VocabularyPageSize {
			p.Items = items[:VocabularyPageSize]
			p.HasNext = true
		}
		return p, nil
	})
}

// Items returns the vocabulary items with the given ids, ordered by id
func (s *VocabularyService) Items(ctx context.Context, ids []int64) ([]domain.VocabularyItem, error) {
	items, err := s.vocab.GetVocabularyByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Storage("load vocabulary", err)
	}
	return items, nil
}
