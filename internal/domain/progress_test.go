package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		part     int
		whole    int
		expected int
	}{
		{name: "zero whole", part: 0, whole: 0, expected: 0},
		{name: "three of ten", part: 3, whole: 10, expected: 30},
		{name: "rounds half up", part: 1, whole: 8, expected: 13},
		{name: "rounds down", part: 1, whole: 3, expected: 33},
		{name: "rounds up", part: 2, whole: 3, expected: 67},
		{name: "all", part: 7, whole: 7, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percent(tt.part, tt.whole))
		})
	}
}

func TestNewUserProgress(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p := NewUserProgress(StatusCounts{})
		assert.Equal(t, UserProgress{}, p)
	})

	t.Run("ten records with three mastered", func(t *testing.T) {
		p := NewUserProgress(StatusCounts{
			ByStatus: map[Status]int{
				StatusMastered:  3,
				StatusLearning:  5,
				StatusDifficult: 2,
			},
			CorrectTotal:   30,
			IncorrectTotal: 10,
		})
		assert.Equal(t, 10, p.TotalLearned)
		assert.Equal(t, 3, p.Mastered)
		assert.Equal(t, 5, p.Learning)
		assert.Equal(t, 2, p.Difficult)
		assert.Equal(t, 30, p.MasteryPercentage)
		assert.Equal(t, 75, p.Accuracy)
	})
}
