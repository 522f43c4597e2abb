package domain

import "strings"

// Level is the difficulty level of a vocabulary item
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel parses a level filter; empty input means "any level"
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case "", LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l, nil
	default:
		return "", InvalidArgument("unknown level: " + s)
	}
}

// VocabularyItem is a dictionary entry. Read-only to the learning core.
type VocabularyItem struct {
	ID            int64  `json:"id"`
	Word          string `json:"word"`
	Meaning       string `json:"meaning"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Example       string `json:"example,omitempty"`
	PartOfSpeech  string `json:"part_of_speech,omitempty"`
	Level         Level  `json:"level"`
	TopicID       *int64 `json:"topic_id,omitempty"`
}

// InTopic reports whether the item belongs to the given topic
func (v VocabularyItem) InTopic(topicID int64) bool {
	return v.TopicID != nil && *v.TopicID == topicID
}

// Topic is a named group of vocabulary items
type Topic struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DisplayOrder    int    `json:"display_order"`
	Active          bool   `json:"active"`
	VocabularyCount int    `json:"vocabulary_count"`
}
