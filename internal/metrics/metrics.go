// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

const namespace = "jaci"

// Assist outcomes.
const (
	OutcomeNone     = "none"
	OutcomeSingle   = "single"
	OutcomeMultiple = "multiple"
	OutcomeError    = "error"
)

// reasons maps binding and path sentinels to parse failure labels, most
// specific first.
var reasons = []struct {
	err   error
	label string
}{
	{param.ErrUnknownParameter, "unknown_parameter"},
	{param.ErrAlreadyBound, "already_bound"},
	{param.ErrNoMoreParameters, "no_more_parameters"},
	{param.ErrMissingMandatoryParameter, "missing_mandatory_parameter"},
	{param.ErrValueNotAccepted, "value_not_accepted"},
	{param.ErrTypeMismatch, "type_mismatch"},
	{hierarchy.ErrNoSuchEntry, "no_such_entry"},
	{hierarchy.ErrNotADirectory, "not_a_directory"},
	{hierarchy.ErrNotACommand, "not_a_command"},
	{hierarchy.ErrEmptyDirectory, "empty_directory"},
}

// Metrics holds the console collectors and the registry they are
// registered with.
type Metrics struct {
	registry      *prometheus.Registry
	executions    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	parseFailures *prometheus.CounterVec
	assists       *prometheus.CounterVec
	sessions      prometheus.Gauge
	sessionsTotal prometheus.Counter
	reloads       *prometheus.CounterVec
}

// New creates a Metrics with its own registry, which also carries the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_executions_total",
			Help:      "Commands executed, by command path and status.",
		}, []string{"command", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Command lines that could not be resolved, by reason.",
		}, []string{"reason"}),
		assists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assists_total",
			Help:      "Assist requests, by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Open console sessions.",
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Console sessions opened.",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Hierarchy rebuilds after catalog changes, by status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.executions,
		m.duration,
		m.parseFailures,
		m.assists,
		m.sessions,
		m.sessionsTotal,
		m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CommandExecuted records one command execution.
func (m *Metrics) CommandExecuted(path string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.executions.WithLabelValues(path, status).Inc()
	m.duration.WithLabelValues(path).Observe(d.Seconds())
}

// ParseFailed records a line that could not be resolved.
func (m *Metrics) ParseFailed(err error) {
	m.parseFailures.WithLabelValues(Reason(err)).Inc()
}

// Assisted records an assist request.
func (m *Metrics) Assisted(candidates int, err error) {
	outcome := OutcomeMultiple
	switch {
	case err != nil:
		outcome = OutcomeError
	case candidates == 0:
		outcome = OutcomeNone
	case candidates == 1:
		outcome = OutcomeSingle
	}
	m.assists.WithLabelValues(outcome).Inc()
}

// SessionStarted records a new session. The returned func records its end.
func (m *Metrics) SessionStarted() (done func()) {
	m.sessionsTotal.Inc()
	m.sessions.Inc()
	return func() { m.sessions.Dec() }
}

// CatalogsReloaded records a hierarchy rebuild.
func (m *Metrics) CatalogsReloaded(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.reloads.WithLabelValues(status).Inc()
}

// Reason returns the parse failure label of err, or "other".
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "other"
}
