package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	reg := prom.NewRegistry()
	m, err := NewWithRegisterer(reg)
	require.NoError(t, err)

	m.ExtractionResult("x-forwarded-for", "hit")
	m.ExtractionResult("x-forwarded-for", "hit")
	m.ExtractionResult("cf-connecting-ip", "private")
	m.GeoResult("headers")
	m.BlockedIP()

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.extractionTotal.WithLabelValues("x-forwarded-for", "hit")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.extractionTotal.WithLabelValues("cf-connecting-ip", "private")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.geoTotal.WithLabelValues("headers")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.blockedTotal))
}

func TestRepeatedRegistrationReusesCollectors(t *testing.T) {
	reg := prom.NewRegistry()

	first, err := NewWithRegisterer(reg)
	require.NoError(t, err)
	second, err := NewWithRegisterer(reg)
	require.NoError(t, err)

	first.GeoResult("database")
	second.GeoResult("database")

	assert.Equal(t, float64(2), testutil.ToFloat64(first.geoTotal.WithLabelValues("database")))
}

func TestNilRegistererFallsBackToDefault(t *testing.T) {
	m, err := NewWithRegisterer(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}
