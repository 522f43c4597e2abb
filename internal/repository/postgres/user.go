package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vocabtrainer/internal/domain"

	"github.com/lib/pq"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// IsAuthorized checks if user is authorized
func (r *UserRepo) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&authorized)

	if err == sql.ErrNoRows {
		// User doesn't exist yet
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// AuthorizeUser marks user as authorized
func (r *UserRepo) AuthorizeUser(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// GetProfile returns the user's profile, or nil if the user doesn't exist
func (r *UserRepo) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	query := `
		SELECT user_id, name, daily_goal, authorized, created_at
		FROM users
		WHERE user_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.UserID, &u.Name, &u.DailyGoal, &u.Authorized, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListAuthorized returns all authorized users
func (r *UserRepo) ListAuthorized(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT user_id, name, daily_goal, authorized, created_at
		FROM users
		WHERE authorized = TRUE
		ORDER BY user_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.DailyGoal, &u.Authorized, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// UpdateDailyGoal sets the number of words per day
func (r *UserRepo) UpdateDailyGoal(ctx context.Context, userID int64, goal int) error {
	query := `UPDATE users SET daily_goal = $2 WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, goal)
	return err
}

// UpdateName sets the display name
func (r *UserRepo) UpdateName(ctx context.Context, userID int64, name string) error {
	query := `UPDATE users SET name = $2 WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, name)
	return err
}

// SelectedTopics returns the ids of topics the user follows
func (r *UserRepo) SelectedTopics(ctx context.Context, userID int64) ([]int64, error) {
	query := `
		SELECT topic_id
		FROM user_topics
		WHERE user_id = $1
		ORDER BY topic_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
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

	return ids, rows.Err()
}

// ReplaceSelectedTopics swaps the user's topic selection in one transaction
func (r *UserRepo) ReplaceSelectedTopics(ctx context.Context, userID int64, topicIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_topics WHERE user_id = $1`, userID); err != nil {
		return err
	}

	if len(topicIDs) > 0 {
		query := `
			INSERT INTO user_topics (user_id, topic_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, userID, pq.Array(topicIDs)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
