package cache

import (
	"fmt"
	"strconv"

	"vocabtrainer/internal/domain"
)

const keyVersion = "v1:"

// Keys builds cache keys. All keys share one prefix; keys owned by a user
// start with "user:<id>:" so UserPattern matches all of them.
type Keys struct {
	prefix string
}

// NewKeys creates a key builder for prefix, e.g. "vocab:".
func NewKeys(prefix string) Keys {
	return Keys{prefix: prefix + keyVersion}
}

func (k Keys) user(userID int64) string {
	return k.prefix + "user:" + strconv.FormatInt(userID, 10) + ":"
}

// UserPattern matches every key owned by userID.
func (k Keys) UserPattern(userID int64) string {
	return k.user(userID) + "*"
}

// UserProgress is the progress record of a user, optionally scoped to a topic.
func (k Keys) UserProgress(userID int64, topicID *int64) string {
	return k.user(userID) + "progress:" + topicPart(topicID)
}

// UserTopicCounts holds a user's learned/mastered counts per topic.
func (k Keys) UserTopicCounts(userID int64, level domain.Level) string {
	return k.user(userID) + "topic_counts:" + levelPart(level)
}

// SelectedTopics is the set of topic ids a user follows.
func (k Keys) SelectedTopics(userID int64) string {
	return k.user(userID) + "selected_topics"
}

// NewWordPool is the id-ordered list of words a user has not started yet.
func (k Keys) NewWordPool(userID int64, topicID *int64) string {
	return k.user(userID) + "new_words:" + topicPart(topicID)
}

// TopicList is the list of active topics.
func (k Keys) TopicList() string {
	return k.prefix + "topics"
}

// TopicStats holds the vocabulary count of every topic for a level.
func (k Keys) TopicStats(level domain.Level) string {
	return k.prefix + "topic_stats:" + levelPart(level)
}

// VocabularyPage is one page of the vocabulary listing.
func (k Keys) VocabularyPage(topicID *int64, level domain.Level, page int) string {
	return fmt.Sprintf("%svocabulary:%s:%s:%d", k.prefix, topicPart(topicID), levelPart(level), page)
}

func topicPart(topicID *int64) string {
	if topicID == nil {
		return "all"
	}
	return strconv.FormatInt(*topicID, 10)
}

func levelPart(level domain.Level) string {
	if level == "" {
		return "any"
	}
	return string(level)
}
