package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReviewInterval(t *testing.T) {
	tests := []struct {
		name         string
		quality      Quality
		correctCount int
		expected     int
	}{
		{name: "easy with zero correct", quality: QualityGood, correctCount: 0, expected: 0},
		{name: "easy with 3 correct", quality: QualityGood, correctCount: 3, expected: 6},
		{name: "easy with 15 correct is capped", quality: QualityPerfect, correctCount: 15, expected: 30},
		{name: "easy with 40 correct is capped", quality: QualityPerfect, correctCount: 40, expected: 30},
		{name: "ok with zero correct", quality: QualityOK, correctCount: 0, expected: 0},
		{name: "ok with 3 correct", quality: QualityOK, correctCount: 3, expected: 3},
		{name: "ok with 15 correct is capped", quality: QualityOK, correctCount: 15, expected: 7},
		{name: "ok with 40 correct is capped", quality: QualityOK, correctCount: 40, expected: 7},
		{name: "hard with zero correct", quality: QualityHard, correctCount: 0, expected: 1},
		{name: "forgot with 3 correct", quality: QualityForgot, correctCount: 3, expected: 1},
		{name: "blackout with 15 correct", quality: QualityBlackout, correctCount: 15, expected: 1},
		{name: "hard with 40 correct", quality: QualityHard, correctCount: 40, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReviewInterval(tt.quality, tt.correctCount))
		})
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   Status
		quality   Quality
		correct   int
		incorrect int
		expected  Status
	}{
		{name: "five clean answers master", current: StatusLearning, quality: QualityPerfect, correct: 5, incorrect: 0, expected: StatusMastered},
		{name: "four clean answers keep learning", current: StatusLearning, quality: QualityPerfect, correct: 4, incorrect: 0, expected: StatusLearning},
		{name: "one miss blocks mastery", current: StatusLearning, quality: QualityPerfect, correct: 6, incorrect: 1, expected: StatusLearning},
		{name: "misses outnumber correct", current: StatusLearning, quality: QualityHard, correct: 1, incorrect: 2, expected: StatusDifficult},
		{name: "equal counts keep status", current: StatusLearning, quality: QualityHard, correct: 2, incorrect: 2, expected: StatusLearning},
		{name: "difficult does not revert", current: StatusDifficult, quality: QualityPerfect, correct: 3, incorrect: 2, expected: StatusDifficult},
		{name: "mastered survives a miss", current: StatusMastered, quality: QualityBlackout, correct: 5, incorrect: 1, expected: StatusMastered},
		{name: "mastered survives many misses", current: StatusMastered, quality: QualityBlackout, correct: 5, incorrect: 9, expected: StatusMastered},
		{name: "reviewing is never produced", current: StatusLearning, quality: QualityOK, correct: 2, incorrect: 0, expected: StatusLearning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextStatus(tt.current, tt.quality, tt.correct, tt.incorrect))
		})
	}
}

func TestQuality_Valid(t *testing.T) {
	for q := Quality(-1); q <= 6; q++ {
		assert.Equal(t, q >= 0 && q <= 5, q.Valid(), "quality %d", q)
	}
}

func TestNewLearningRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("correct first answer", func(t *testing.T) {
		r := NewLearningRecord(1, 10, QualityPerfect, now)
		assert.Equal(t, StatusLearning, r.Status)
		assert.Equal(t, 1, r.CorrectCount)
		assert.Equal(t, 0, r.IncorrectCount)
		assert.Equal(t, now, r.FirstLearnedDate)
		assert.Equal(t, now, r.LastReviewedAt)
		assert.Equal(t, now.AddDate(0, 0, 2), r.NextReviewDate)
	})

	t.Run("wrong first answer stays learning", func(t *testing.T) {
		r := NewLearningRecord(1, 10, QualityBlackout, now)
		assert.Equal(t, StatusLearning, r.Status)
		assert.Equal(t, 0, r.CorrectCount)
		assert.Equal(t, 1, r.IncorrectCount)
		assert.Equal(t, now.AddDate(0, 0, 1), r.NextReviewDate)
	})
}

func TestLearningRecord_ApplyStudyEvent(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewLearningRecord(1, 10, QualityPerfect, start)

	now := start.Add(time.Hour)
	r.ApplyStudyEvent(QualityPerfect, now)
	assert.Equal(t, 2, r.CorrectCount)
	assert.Equal(t, now.AddDate(0, 0, 4), r.NextReviewDate)
	assert.Equal(t, start, r.FirstLearnedDate)

	for i := 0; i < 3; i++ {
		r.ApplyStudyEvent(QualityPerfect, now)
	}
	assert.Equal(t, 5, r.CorrectCount)
	assert.Equal(t, StatusMastered, r.Status)

	r.ApplyStudyEvent(QualityBlackout, now)
	assert.Equal(t, StatusMastered, r.Status)
	assert.Equal(t, 1, r.IncorrectCount)
	assert.Equal(t, 6, r.Attempts())
	assert.Equal(t, now.AddDate(0, 0, 1), r.NextReviewDate)
}
