package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vocabtrainer/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTopicRepo_ListActiveTopics(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTopicRepo(db)

	mock.ExpectQuery("FROM topics WHERE is_active = TRUE ORDER BY display_order, id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "display_order", "is_active", "vocabulary_count"}).
			AddRow(1, "Food", "", 1, true, 40).
			AddRow(2, "Travel", "On the road", 2, true, 25))

	topics, err := repo.ListActiveTopics(context.Background())

	assert.NoError(t, err)
	if assert.Len(t, topics, 2) {
		assert.Equal(t, "Food", topics[0].Name)
		assert.Equal(t, 25, topics[1].VocabularyCount)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepo_VocabularyCountsByTopic(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTopicRepo(db)

	mock.ExpectQuery("SELECT topic_id, COUNT\\(\\*\\) FROM vocabulary").
		WithArgs("").
		WillReturnRows(sqlmock.NewRows([]string{"topic_id", "count"}).
			AddRow(1, 40).
			AddRow(2, 25))

	counts, err := repo.VocabularyCountsByTopic(context.Background(), "")

	assert.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 40, 2: 25}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepo_VocabularyCountsByTopic_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTopicRepo(db)

	mock.ExpectQuery("SELECT topic_id").
		WillReturnError(fmt.Errorf("query error"))

	counts, err := repo.VocabularyCountsByTopic(context.Background(), domain.LevelBeginner)

	assert.Error(t, err)
	assert.Nil(t, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestResultRepo_SaveTestResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTestResultRepo(db)
	takenAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO test_results").
		WithArgs(int64(123), 10, 7, 70, takenAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.SaveTestResult(context.Background(), domain.TestRecord{
		UserID:     123,
		Total:      10,
		Correct:    7,
		Percentage: 70,
		TakenAt:    takenAt,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
