package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	GenerationsStarted  prometheus.Counter
	GenerationsFinished *prometheus.CounterVec
	GenerationDuration  prometheus.Histogram
	RejectedTransitions *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
	ArchivedResumes     prometheus.Counter
}

// New registers all collectors on a fresh registry, along with the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GenerationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "resume_generations_started_total",
			Help: "Total resume generations submitted",
		}),
		GenerationsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_generations_finished_total",
			Help: "Total resume generations that reached a terminal state, by status",
		}, []string{"status"}),
		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_generation_duration_seconds",
			Help:    "Time from submit to terminal state",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		RejectedTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_rejected_transitions_total",
			Help: "Forward transitions rejected by step validation, by step",
		}, []string{"step"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wizard_active_sessions",
			Help: "Wizard sessions currently held in memory",
		}),
		ArchivedResumes: factory.NewCounter(prometheus.CounterOpts{
			Name: "resume_archived_total",
			Help: "Generated resumes written to the archive",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) IncGenerationStarted() {
	if m == nil {
		return
	}
	m.GenerationsStarted.Inc()
}

// ObserveGeneration records a finished generation.
func (m *Metrics) ObserveGeneration(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.GenerationsFinished.WithLabelValues(status).Inc()
	m.GenerationDuration.Observe(d.Seconds())
}

func (m *Metrics) IncRejectedTransition(step int) {
	if m == nil {
		return
	}
	m.RejectedTransitions.WithLabelValues(strconv.Itoa(step)).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func (m *Metrics) IncArchived() {
	if m == nil {
		return
	}
	m.ArchivedResumes.Inc()
}

// Handler exposes metrics in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}
