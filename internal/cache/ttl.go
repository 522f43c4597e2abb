package cache

import "time"

// TTLPolicy holds the expiry for each kind of cache entry. A zero duration
// disables caching for that kind.
type TTLPolicy struct {
	Hot            time.Duration
	UserProgress   time.Duration
	TopicStats     time.Duration
	SelectedTopics time.Duration
	Listing        time.Duration
}

// DefaultTTLPolicy returns the standard expiries.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Hot:            5 * time.Minute,
		UserProgress:   15 * time.Minute,
		TopicStats:     20 * time.Minute,
		SelectedTopics: 30 * time.Minute,
		Listing:        time.Hour,
	}
}
