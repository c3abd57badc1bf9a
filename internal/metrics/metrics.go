package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the portal's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	registrations   *prometheus.CounterVec
	statusUpdates   *prometheus.CounterVec
	quizResults     *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_registrations_total",
				Help: "Participant registrations by result",
			},
			[]string{"result"},
		),
		statusUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_status_updates_total",
				Help: "Participant status flags set",
			},
			[]string{"flag"},
		),
		quizResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_quiz_results_total",
				Help: "Completed quiz attempts by verdict",
			},
			[]string{"verdict"},
		),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_active_sessions",
			Help: "Portal sessions with at least one attached connection",
		}),
	}
	reg.MustRegister(m.requestCounter, m.requestDuration, m.registrations, m.statusUpdates, m.quizResults, m.activeSessions)
	return m
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) StatusUpdate(flag string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(flag).Inc()
}

func (m *Metrics) QuizResult(passed bool) {
	if m == nil {
		return
	}
	verdict := "failed"
	if passed {
		verdict = "passed"
	}
	m.quizResults.WithLabelValues(verdict).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// Middleware records request counts and latencies per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.requestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if m != nil {
		gatherer = m.gatherer
	}
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
