package postgres

import (
	"context"
	"database/sql"
	"math/rand/v2"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/repository"

	"github.com/lib/pq"
)

const vocabularyColumns = `v.id, v.word, v.meaning, COALESCE(v.pronunciation, ''), COALESCE(v.example, ''),
		COALESCE(v.part_of_speech, ''), v.level, v.topic_id`

// VocabularyRepo implements repository.VocabularyRepository
type VocabularyRepo struct {
	db      *sql.DB
	shuffle func(n int, swap func(i, j int))
}

// NewVocabularyRepo creates a new vocabulary repository
func NewVocabularyRepo(db *sql.DB) *VocabularyRepo {
	return &VocabularyRepo{db: db, shuffle: rand.Shuffle}
}

func scanVocabulary(s rowScanner) (domain.VocabularyItem, error) {
	var item domain.VocabularyItem
	var level string
	var topicID sql.NullInt64
	err := s.Scan(
		&item.ID, &item.Word, &item.Meaning, &item.Pronunciation, &item.Example,
		&item.PartOfSpeech, &level, &topicID,
	)
	if err != nil {
		return item, err
	}
	item.Level = domain.Level(level)
	if topicID.Valid {
		id := topicID.Int64
		item.TopicID = &id
	}
	return item, nil
}

func (r *VocabularyRepo) queryItems(ctx context.Context, query string, args ...any) ([]domain.VocabularyItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.VocabularyItem
	for rows.Next() {
		item, err := scanVocabulary(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetVocabularyByIDs returns the items with the given ids, ordered by id
func (r *VocabularyRepo) GetVocabularyByIDs(ctx context.Context, ids []int64) ([]domain.VocabularyItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary v
		WHERE v.id = ANY($1)
		ORDER BY v.id
	`
	return r.queryItems(ctx, query, pq.Array(ids))
}

// RandomVocabularyExcluding picks up to count random items outside excludeIDs.
// Candidate ids are fetched in id order and shuffled in memory, so the result
// does not depend on a database-specific random operator.
func (r *VocabularyRepo) RandomVocabularyExcluding(ctx context.Context, excludeIDs []int64, count int, topicID *int64) ([]domain.VocabularyItem, error) {
	if count <= 0 {
		return nil, nil
	}
	query := `
		SELECT id
		FROM vocabulary
		WHERE NOT (id = ANY($1))
			AND ($2::bigint IS NULL OR topic_id = $2)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(excludeIDs), nullInt64(topicID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > count {
		r.shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		ids = ids[:count]
	}

	items, err := r.GetVocabularyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Restore the shuffled order
	byID := make(map[int64]domain.VocabularyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	result := make([]domain.VocabularyItem, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			result = append(result, item)
		}
	}
	return result, nil
}

// UnlearnedVocabulary returns items the user has never been shown, ordered by id
func (r *VocabularyRepo) UnlearnedVocabulary(ctx context.Context, userID int64, topicID *int64) ([]domain.VocabularyItem, error) {
	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary v
		WHERE NOT EXISTS (
				SELECT 1 FROM learning_records lr
				WHERE lr.user_id = $1 AND lr.vocabulary_id = v.id
			)
			AND ($2::bigint IS NULL OR v.topic_id = $2)
		ORDER BY v.id
	`
	return r.queryItems(ctx, query, userID, nullInt64(topicID))
}

// ListVocabulary returns a page of items ordered by word
func (r *VocabularyRepo) ListVocabulary(ctx context.Context, q repository.VocabularyQuery) ([]domain.VocabularyItem, error) {
	query := `
		SELECT ` + vocabularyColumns + `
		FROM vocabulary v
		WHERE ($1::bigint IS NULL OR v.topic_id = $1)
			AND ($2 = '' OR v.level = $2)
		ORDER BY v.word, v.id
		LIMIT $3 OFFSET $4
	`
	return r.queryItems(ctx, query, nullInt64(q.TopicID), string(q.Level), q.Limit, q.Offset)
}
