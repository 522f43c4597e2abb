package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabtrainer/internal/metrics"
)

func TestNew_DefaultRegistry(t *testing.T) {
	c := New(nil)
	assert.NotNil(t, c.registry)
}

func TestCollector_IncCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.IncCounter(metrics.CacheHits, 2)
	c.IncCounter(metrics.CacheHits, 3)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, metrics.CacheHits, families[0].GetName())
	assert.Equal(t, float64(5), families[0].GetMetric()[0].GetCounter().GetValue())
}

func TestCollector_ObserveHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveHistogram(metrics.ResponseTimeMs, 800)
	c.ObserveHistogram(metrics.ResponseTimeMs, 1200)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	h := families[0].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), h.GetSampleCount())
	assert.Equal(t, float64(2000), h.GetSampleSum())
}

func TestCollector_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg)
	b := New(reg)

	a.IncCounter(metrics.StudyEvents, 1)
	b.IncCounter(metrics.StudyEvents, 1)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, float64(2), families[0].GetMetric()[0].GetCounter().GetValue())
}
