package domain

import "math"

// StatusCounts is the grouped result of counting a user's records by status
type StatusCounts struct {
	ByStatus       map[Status]int
	CorrectTotal   int
	IncorrectTotal int
}

// TopicCounts holds per-topic learned and mastered counts for one user
type TopicCounts struct {
	Learned  int `json:"learned"`
	Mastered int `json:"mastered"`
}

// UserProgress summarizes a user's learning records
type UserProgress struct {
	TotalLearned      int `json:"total_learned"`
	Mastered          int `json:"mastered"`
	Learning          int `json:"learning"`
	Reviewing         int `json:"reviewing"`
	Difficult         int `json:"difficult"`
	MasteryPercentage int `json:"mastery_percentage"`
	Accuracy          int `json:"accuracy"`
}

// NewUserProgress derives the summary from grouped counts
func NewUserProgress(c StatusCounts) UserProgress {
	p := UserProgress{
		Mastered:  c.ByStatus[StatusMastered],
		Learning:  c.ByStatus[StatusLearning],
		Reviewing: c.ByStatus[StatusReviewing],
		Difficult: c.ByStatus[StatusDifficult],
	}
	for _, n := range c.ByStatus {
		p.TotalLearned += n
	}
	p.MasteryPercentage = Percent(p.Mastered, p.TotalLearned)
	p.Accuracy = Percent(c.CorrectTotal, c.CorrectTotal+c.IncorrectTotal)
	return p
}

// TopicProgressView is one row of the topic dashboard
type TopicProgressView struct {
	Topic             Topic `json:"topic"`
	VocabularyCount   int   `json:"vocabulary_count"`
	Learned           int   `json:"learned"`
	Mastered          int   `json:"mastered"`
	MasteryPercentage int   `json:"mastery_percentage"`
	Selected          bool  `json:"selected"`
}

// Percent returns round(100*part/whole), or 0 when whole is 0
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
