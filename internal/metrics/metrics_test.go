package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	assert.Same(t, first, second)
}

func TestRecordFetchOutcomes(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordFetchSuccess()
		RecordFetchSkipped()
		RecordFetchError()
	})
}

func TestRecordTraining(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordTraining(42, 0.91, 1.5)
	})
}

func TestHandler(t *testing.T) {
	InitRegistry()
	assert.NotNil(t, Handler())
}
