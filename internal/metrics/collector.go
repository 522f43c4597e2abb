// Package metrics defines the counters the services report.
package metrics

// Metric names.
const (
	// Cache gateway.
	CacheHits   = "vocab_cache_hits_total"
	CacheMisses = "vocab_cache_misses_total"
	CacheErrors = "vocab_cache_errors_total"

	// Services.
	StudyEvents     = "vocab_study_events_total"
	TestsGenerated  = "vocab_tests_generated_total"
	AnswersGraded   = "vocab_answers_graded_total"
	ResponseTimeMs  = "vocab_response_time_ms"
	RemindersQueued = "vocab_reminders_total"
)

// Collector receives metric updates.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
