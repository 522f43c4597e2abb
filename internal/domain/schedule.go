package domain

import "time"

// Quality is the 0..5 recall signal of a study event.
// 0-2 means hard/forgot, 3 ok, 4-5 easy/correct.
type Quality int

const (
	QualityBlackout Quality = 0
	QualityForgot   Quality = 1
	QualityHard     Quality = 2
	QualityOK       Quality = 3
	QualityGood     Quality = 4
	QualityPerfect  Quality = 5
)

const masteryThreshold = 5

// Valid reports whether q is within 0..5
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Correct reports whether q counts as a correct answer
func (q Quality) Correct() bool {
	return q >= QualityOK
}

// NextStatus is the single status transition table used by every update path.
//
// MASTERED is terminal. A record becomes MASTERED after five correct answers
// with no misses, DIFFICULT once misses outnumber correct answers, and keeps
// its current status otherwise. REVIEWING is never produced. quality is
// currently unused by the table.
func NextStatus(current Status, quality Quality, correctCount, incorrectCount int) Status {
	if current == StatusMastered {
		return StatusMastered
	}
	if correctCount >= masteryThreshold && incorrectCount == 0 {
		return StatusMastered
	}
	if incorrectCount > correctCount {
		return StatusDifficult
	}
	return current
}

// ReviewInterval returns the number of days until the next review.
// correctCount is the counter value after the current answer was applied.
func ReviewInterval(quality Quality, correctCount int) int {
	switch {
	case quality >= QualityGood:
		return min(correctCount*2, 30)
	case quality == QualityOK:
		return min(correctCount, 7)
	default:
		return 1
	}
}

// NewLearningRecord creates the record for a first exposure at now
func NewLearningRecord(userID, vocabularyID int64, quality Quality, now time.Time) *LearningRecord {
	r := &LearningRecord{
		UserID:           userID,
		VocabularyID:     vocabularyID,
		Status:           StatusLearning,
		FirstLearnedDate: now,
	}
	r.count(quality)
	r.schedule(quality, now)
	return r
}

// ApplyStudyEvent records one more answer on an existing record.
// Order matters: counters, then status, then next review date.
func (r *LearningRecord) ApplyStudyEvent(quality Quality, now time.Time) {
	r.count(quality)
	r.Status = NextStatus(r.Status, quality, r.CorrectCount, r.IncorrectCount)
	r.schedule(quality, now)
}

func (r *LearningRecord) count(quality Quality) {
	if quality.Correct() {
		r.CorrectCount++
	} else {
		r.IncorrectCount++
	}
}

func (r *LearningRecord) schedule(quality Quality, now time.Time) {
	r.LastReviewedAt = now
	r.NextReviewDate = now.AddDate(0, 0, ReviewInterval(quality, r.CorrectCount))
}
