// Package metrics provides the centralized Prometheus metrics registry for
// the scoring pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecordsProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trial_pts",
		Name:      "records_processed_total",
		Help:      "Total number of records successfully preprocessed",
	})
	RecordsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trial_pts",
		Name:      "records_dropped_total",
		Help:      "Total number of records dropped during preprocessing",
	})
	TrialsFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trial_pts",
		Name:      "trials_fetched_total",
		Help:      "Total number of trial records fetched from the registry",
	})
	TrialsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trial_pts",
		Name:      "trials_skipped_total",
		Help:      "Total number of identifiers skipped on empty responses",
	})
	AcquisitionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trial_pts",
		Name:      "acquisition_errors_total",
		Help:      "Total number of failed registry fetches",
	})
	ScoresComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trial_pts",
		Name:      "scores_computed_total",
		Help:      "Total number of PTS scores produced",
	})
)

// Gauge metrics
var (
	TrainingRounds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trial_pts",
		Name:      "training_rounds",
		Help:      "Boosting rounds kept after early stopping",
	})
	BestValidationAUC = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trial_pts",
		Name:      "best_validation_auc",
		Help:      "Best validation AUC observed during training",
	})
	ValidationAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trial_pts",
		Name:      "validation_accuracy",
		Help:      "Validation accuracy at the 0.5 threshold",
	})
)

// Histogram metrics
var (
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trial_pts",
		Name:      "scoring_duration_seconds",
		Help:      "Duration of batch scoring in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trial_pts",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RecordsProcessedTotal)
		registry.MustRegister(RecordsDroppedTotal)
		registry.MustRegister(TrialsFetchedTotal)
		registry.MustRegister(TrialsSkippedTotal)
		registry.MustRegister(AcquisitionErrorsTotal)
		registry.MustRegister(ScoresComputedTotal)

		registry.MustRegister(TrainingRounds)
		registry.MustRegister(BestValidationAUC)
		registry.MustRegister(ValidationAccuracy)

		registry.MustRegister(ScoringDuration)
		registry.MustRegister(TrainingDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordFetchSuccess records one successfully fetched identifier.
func RecordFetchSuccess() {
	TrialsFetchedTotal.Inc()
}

// RecordFetchSkipped records one identifier skipped on an empty response.
func RecordFetchSkipped() {
	TrialsSkippedTotal.Inc()
}

// RecordFetchError records one failed fetch.
func RecordFetchError() {
	AcquisitionErrorsTotal.Inc()
}

// RecordTraining records the outcome of one training run.
func RecordTraining(rounds int, bestAUC, durationSeconds float64) {
	TrainingRounds.Set(float64(rounds))
	BestValidationAUC.Set(bestAUC)
	TrainingDuration.Observe(durationSeconds)
}
