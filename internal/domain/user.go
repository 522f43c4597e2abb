package domain

import "time"

// User represents a learner
type User struct {
	UserID     int64
	Name       string
	DailyGoal  int
	Authorized bool
	CreatedAt  time.Time
}

// Daily goal bounds
const (
	DefaultDailyGoal = 10
	MaxDailyGoal     = 200
)

// UserState represents user's current interaction state in the bot
type UserState string

const (
	StateIdle            UserState = "idle"
	StateWaitingPassword UserState = "waiting_password"
	StateWaitingAnswer   UserState = "waiting_answer"
	StateWaitingName     UserState = "waiting_name"
	StateStudying        UserState = "studying"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State     UserState
	Cards     []VocabularyItem // Remaining study or review cards
	Questions []Question       // Pending test questions
	Current   int              // Index into Questions
	Answers   []Answer
	ShownAt   time.Time // When the current card or question was shown
	MessageID int       // For editing messages
}

// CurrentQuestion returns the pending question, if any
func (s *StateData) CurrentQuestion() (Question, bool) {
	if s == nil || s.Current < 0 || s.Current >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Current], true
}

// Reminder tells a user how many words are due
type Reminder struct {
	UserID    int64
	Due       int
	DailyGoal int
}

// TestRecord is a stored history row of a graded test
type TestRecord struct {
	UserID     int64
	Total      int
	Correct    int
	Percentage int
	TakenAt    time.Time
}
