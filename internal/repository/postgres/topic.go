package postgres

import (
	"context"
	"database/sql"

	"vocabtrainer/internal/domain"
)

// TopicRepo implements repository.TopicRepository
type TopicRepo struct {
	db *sql.DB
}

// NewTopicRepo creates a new topic repository
func NewTopicRepo(db *sql.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// ListActiveTopics returns active topics in display order
func (r *TopicRepo) ListActiveTopics(ctx context.Context) ([]domain.Topic, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), display_order, is_active, vocabulary_count
		FROM topics
		WHERE is_active = TRUE
		ORDER BY display_order, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.DisplayOrder, &t.Active, &t.VocabularyCount); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}

	return topics, rows.Err()
}

// VocabularyCountsByTopic counts vocabulary items per topic, optionally for one level
func (r *TopicRepo) VocabularyCountsByTopic(ctx context.Context, level domain.Level) (map[int64]int, error) {
	query := `
		SELECT topic_id, COUNT(*)
		FROM vocabulary
		WHERE topic_id IS NOT NULL
			AND ($1 = '' OR level = $1)
		GROUP BY topic_id
	`
	rows, err := r.db.QueryContext(ctx, query, string(level))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var topicID int64
		var n int
		if err := rows.Scan(&topicID, &n); err != nil {
			return nil, err
		}
		counts[topicID] = n
	}

	return counts, rows.Err()
}
