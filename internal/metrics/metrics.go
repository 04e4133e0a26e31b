package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PredictionsTotal        *prometheus.CounterVec
	ValidationFailuresTotal prometheus.Counter
	BundleReloadsTotal      *prometheus.CounterVec
	PredictionDuration      prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		PredictionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "heart_inference_predictions_total",
			Help: "Total number of predictions served, by predicted outcome",
		}, []string{"outcome"}),
		ValidationFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "heart_inference_validation_failures_total",
			Help: "Total number of requests rejected by input validation",
		}),
		BundleReloadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "heart_inference_bundle_reloads_total",
			Help: "Total number of bundle load attempts, by result",
		}, []string{"result"}),
		PredictionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "heart_inference_prediction_duration_seconds",
			Help:    "Latency of single prediction requests",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncPrediction(prediction int) {
	if m == nil {
		return
	}
	outcome := "no_disease"
	if prediction == 1 {
		outcome = "disease"
	}
	m.PredictionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePrediction(prediction int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.IncPrediction(prediction)
	m.PredictionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) IncValidationFailures() {
	if m == nil {
		return
	}
	m.ValidationFailuresTotal.Inc()
}

func (m *Metrics) IncBundleReloads(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.BundleReloadsTotal.WithLabelValues(result).Inc()
}
