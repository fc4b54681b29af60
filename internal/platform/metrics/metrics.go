// Package metrics expone contadores Prometheus en un registry propio
// (no el global) para que cada router/test tenga el suyo.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "therapy_track"

type Metrics struct {
	reg *prometheus.Registry

	doseToggles     *prometheus.CounterVec
	reminderActions *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		doseToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dose_toggles_total",
			Help:      "Scheduled dose toggles by resulting state.",
		}, []string{"state"}),
		reminderActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_actions_total",
			Help:      "Group reminder suppressions and re-arms.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.doseToggles,
		m.reminderActions,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// DoseToggled y ReminderAction satisfacen reminders.Recorder.
func (m *Metrics) DoseToggled(done bool) {
	state := "undone"
	if done {
		state = "done"
	}
	m.doseToggles.WithLabelValues(state).Inc()
}

func (m *Metrics) ReminderAction(action string) {
	m.reminderActions.WithLabelValues(action).Inc()
}

// ObserveHTTP lo llama el middleware de acceso.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
