package domain

import "time"

// Status is the learning state of a (user, word) pair
type Status string

const (
	StatusNew       Status = "NEW"
	StatusLearning  Status = "LEARNING"
	StatusReviewing Status = "REVIEWING"
	StatusDifficult Status = "DIFFICULT"
	StatusMastered  Status = "MASTERED"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReviewing, StatusDifficult, StatusMastered:
		return true
	}
	return false
}

// LearningRecord is the per-(user, word) learning state.
// It exists only once the user has been shown the word.
type LearningRecord struct {
	UserID           int64     `json:"user_id"`
	VocabularyID     int64     `json:"vocabulary_id"`
	Status           Status    `json:"status"`
	CorrectCount     int       `json:"correct_count"`
	IncorrectCount   int       `json:"incorrect_count"`
	FirstLearnedDate time.Time `json:"first_learned_date"`
	LastReviewedAt   time.Time `json:"last_reviewed_at"`
	NextReviewDate   time.Time `json:"next_review_date"`
}

// Attempts returns the total number of recorded answers
func (r LearningRecord) Attempts() int {
	return r.CorrectCount + r.IncorrectCount
}

// DueAt reports whether the record is a review candidate at t
func (r LearningRecord) DueAt(t time.Time) bool {
	return r.NextReviewDate.Before(t)
}
