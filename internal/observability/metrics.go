package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests.
// Every method is safe on a nil receiver, which is how disabled metrics are expressed.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	submissions  *prometheus.CounterVec
	accuracy     prometheus.Histogram
	aggregation  prometheus.Histogram
	aggregateOps *prometheus.CounterVec
	lockWait     prometheus.Histogram
	catalogCache *prometheus.CounterVec
	uploadBytes  prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quran_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quran_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quran_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quran_recitation_submissions_total",
			Help: "Recitation submissions by outcome.",
		}, []string{"outcome"}),
		accuracy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quran_recitation_accuracy_score",
			Help:    "Accuracy scores produced by the analyzer.",
			Buckets: []float64{50, 60, 70, 75, 80, 85, 90, 95, 100},
		}),
		aggregation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quran_progress_aggregation_duration_seconds",
			Help:    "Time spent refolding a user progress row.",
			Buckets: prometheus.DefBuckets,
		}),
		aggregateOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quran_aggregate_operations_total",
			Help: "Transactional aggregate writes by operation and status.",
		}, []string{"operation", "status"}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quran_progress_lock_wait_seconds",
			Help:    "Time spent waiting for the per user/surah progress lock.",
			Buckets: prometheus.DefBuckets,
		}),
		catalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quran_catalog_cache_total",
			Help: "Catalog cache lookups by result.",
		}, []string{"result"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quran_recitation_upload_bytes",
			Help:    "Size of accepted recitation uploads.",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.submissions, m.accuracy, m.aggregation, m.aggregateOps, m.lockWait, m.catalogCache, m.uploadBytes,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// ObserveSubmission records the outcome of a recitation submission
// ("analyzed", "rejected", "failed").
func (m *Metrics) ObserveSubmission(outcome string) {
	if m != nil {
		m.submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveAccuracy(score int) {
	if m != nil {
		m.accuracy.Observe(float64(score))
	}
}

func (m *Metrics) ObserveAggregation(d time.Duration) {
	if m != nil {
		m.aggregation.Observe(d.Seconds())
	}
}

func (m *Metrics) IncAggregateOperation(op, status string) {
	if m != nil {
		m.aggregateOps.WithLabelValues(op, status).Inc()
	}
}

func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m != nil {
		m.lockWait.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveUploadBytes(n int64) {
	if m != nil {
		m.uploadBytes.Observe(float64(n))
	}
}

func (m *Metrics) CatalogCacheHit() {
	if m != nil {
		m.catalogCache.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) CatalogCacheMiss() {
	if m != nil {
		m.catalogCache.WithLabelValues("miss").Inc()
	}
}
