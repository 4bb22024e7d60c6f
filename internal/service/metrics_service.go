package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes recorded by RecordLookup.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupInvalid  = "invalid"
	LookupError    = "error"
)

// MetricsService owns the Prometheus registry exposed at /metrics.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	recalcRuns      *prometheus.CounterVec
	recalcScanned   prometheus.Counter
	recalcUpdated   prometheus.Counter
	recalcDuration  prometheus.Histogram
	lookups         *prometheus.CounterVec
	logins          *prometheus.CounterVec
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	recalcRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "results_recalculation_runs_total",
		Help: "Grade recalculation runs by outcome",
	}, []string{"outcome"})

	recalcScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "results_recalculation_scanned_total",
		Help: "Results examined by grade recalculation",
	})

	recalcUpdated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "results_recalculation_updated_total",
		Help: "Results whose stored grade was rewritten by recalculation",
	})

	recalcDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "results_recalculation_duration_seconds",
		Help:    "Duration of grade recalculation runs",
		Buckets: prometheus.DefBuckets,
	})

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "results_lookups_total",
		Help: "Public result lookups by outcome",
	}, []string{"outcome"})

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_logins_total",
		Help: "Admin login attempts by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, recalcRuns, recalcScanned, recalcUpdated, recalcDuration, lookups, logins, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		recalcRuns:      recalcRuns,
		recalcScanned:   recalcScanned,
		recalcUpdated:   recalcUpdated,
		recalcDuration:  recalcDuration,
		lookups:         lookups,
		logins:          logins,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordRecalculation records one recalculation run. A non-nil err marks the run failed.
func (m *MetricsService) RecordRecalculation(scanned, updated int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.recalcRuns.WithLabelValues(outcome).Inc()
	m.recalcScanned.Add(float64(scanned))
	m.recalcUpdated.Add(float64(updated))
	m.recalcDuration.Observe(duration.Seconds())
}

func (m *MetricsService) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

func (m *MetricsService) RecordLogin(success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.logins.WithLabelValues(outcome).Inc()
}
