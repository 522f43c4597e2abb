package postgres

import (
	"context"
	"database/sql"
	"time"

	"vocabtrainer/internal/domain"
)

// TestResultRepo implements repository.TestResultRepository
type TestResultRepo struct {
	db *sql.DB
}

// NewTestResultRepo creates a new test result repository
func NewTestResultRepo(db *sql.DB) *TestResultRepo {
	return &TestResultRepo{db: db}
}

// SaveTestResult stores one graded test
func (r *TestResultRepo) SaveTestResult(ctx context.Context, result domain.TestRecord) error {
	takenAt := result.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	query := `
		INSERT INTO test_results (user_id, total, correct, percentage, taken_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, result.UserID, result.Total, result.Correct, result.Percentage, takenAt)
	return err
}
