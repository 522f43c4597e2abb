package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/repository"
)

const recordColumns = `lr.user_id, lr.vocabulary_id, lr.status, lr.correct_count, lr.incorrect_count,
		lr.first_learned_date, lr.last_reviewed_at, lr.next_review_date`

// RecordRepo implements repository.LearningRecordRepository
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new learning record repository
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (*domain.LearningRecord, error) {
	var rec domain.LearningRecord
	var status string
	err := s.Scan(
		&rec.UserID, &rec.VocabularyID, &status, &rec.CorrectCount, &rec.IncorrectCount,
		&rec.FirstLearnedDate, &rec.LastReviewedAt, &rec.NextReviewDate,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = domain.Status(status)
	return &rec, nil
}

// FindLearningRecord returns the record for a (user, word) pair, or nil if absent
func (r *RecordRepo) FindLearningRecord(ctx context.Context, userID, vocabularyID int64) (*domain.LearningRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM learning_records lr
		WHERE lr.user_id = $1 AND lr.vocabulary_id = $2
	`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, userID, vocabularyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpsertLearningRecord creates or updates a record by (user, word).
// first_learned_date is kept from the original insert.
func (r *RecordRepo) UpsertLearningRecord(ctx context.Context, rec *domain.LearningRecord) (*domain.LearningRecord, error) {
	query := `
		INSERT INTO learning_records AS lr (
			user_id, vocabulary_id, status, correct_count, incorrect_count,
			first_learned_date, last_reviewed_at, next_review_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, vocabulary_id) DO UPDATE SET
			status = EXCLUDED.status,
			correct_count = EXCLUDED.correct_count,
			incorrect_count = EXCLUDED.incorrect_count,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_date = EXCLUDED.next_review_date
		RETURNING ` + recordColumns
	return scanRecord(r.db.QueryRowContext(ctx, query,
		rec.UserID,
		rec.VocabularyID,
		string(rec.Status),
		rec.CorrectCount,
		rec.IncorrectCount,
		rec.FirstLearnedDate,
		rec.LastReviewedAt,
		rec.NextReviewDate,
	))
}

// QueryLearningRecords returns a user's records matching the filter
func (r *RecordRepo) QueryLearningRecords(ctx context.Context, filter repository.RecordFilter, limit int, order repository.RecordOrder) ([]domain.LearningRecord, error) {
	conds := []string{"lr.user_id = $1"}
	args := []any{filter.UserID}
	join := ""

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("lr.status = $%d", len(args)))
	}
	if filter.NextReviewBefore != nil {
		args = append(args, *filter.NextReviewBefore)
		conds = append(conds, fmt.Sprintf("lr.next_review_date < $%d", len(args)))
	}
	if filter.TopicID != nil {
		join = "JOIN vocabulary v ON v.id = lr.vocabulary_id"
		args = append(args, *filter.TopicID)
		conds = append(conds, fmt.Sprintf("v.topic_id = $%d", len(args)))
	}

	orderBy := "lr.next_review_date ASC, lr.vocabulary_id ASC"
	if order == repository.OrderLastReviewedDesc {
		orderBy = "lr.last_reviewed_at DESC, lr.vocabulary_id ASC"
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM learning_records lr %s
		WHERE %s
		ORDER BY %s
		LIMIT $%d
	`, recordColumns, join, strings.Join(conds, " AND "), orderBy, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.LearningRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// CountByStatus counts a user's records by status in one grouped query
func (r *RecordRepo) CountByStatus(ctx context.Context, userID int64, topicID *int64, level domain.Level) (domain.StatusCounts, error) {
	query := `
		SELECT lr.status, COUNT(*), COALESCE(SUM(lr.correct_count), 0), COALESCE(SUM(lr.incorrect_count), 0)
		FROM learning_records lr
		JOIN vocabulary v ON v.id = lr.vocabulary_id
		WHERE lr.user_id = $1
			AND ($2::bigint IS NULL OR v.topic_id = $2)
			AND ($3 = '' OR v.level = $3)
		GROUP BY lr.status
	`
	counts := domain.StatusCounts{ByStatus: make(map[domain.Status]int)}

	rows, err := r.db.QueryContext(ctx, query, userID, nullInt64(topicID), string(level))
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n, correct, incorrect int
		if err := rows.Scan(&status, &n, &correct, &incorrect); err != nil {
			return counts, err
		}
		counts.ByStatus[domain.Status(status)] = n
		counts.CorrectTotal += correct
		counts.IncorrectTotal += incorrect
	}

	return counts, rows.Err()
}

// CountByTopic returns learned and mastered counts per topic for a user
func (r *RecordRepo) CountByTopic(ctx context.Context, userID int64, level domain.Level) (map[int64]domain.TopicCounts, error) {
	query := `
		SELECT v.topic_id,
			COUNT(*),
			COUNT(*) FILTER (WHERE lr.status = 'MASTERED')
		FROM learning_records lr
		JOIN vocabulary v ON v.id = lr.vocabulary_id
		WHERE lr.user_id = $1
			AND v.topic_id IS NOT NULL
			AND ($2 = '' OR v.level = $2)
		GROUP BY v.topic_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID, string(level))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]domain.TopicCounts)
	for rows.Next() {
		var topicID int64
		var c domain.TopicCounts
		if err := rows.Scan(&topicID, &c.Learned, &c.Mastered); err != nil {
			return nil, err
		}
		counts[topicID] = c
	}

	return counts, rows.Err()
}

// CountDue returns how many LEARNING records are due before asOf
func (r *RecordRepo) CountDue(ctx context.Context, userID int64, asOf time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM learning_records
		WHERE user_id = $1 AND status = $2 AND next_review_date < $3
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, userID, string(domain.StatusLearning), asOf).Scan(&count)
	return count, err
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
