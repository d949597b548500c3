// Package metrics registers ambient, process-wide Prometheus counters:
// statements executed, actions dispatched, and errors by kind. This is
// pure observability — no runtime semantics depend on it — registered
// on the ExecutionContext as a service like any other collaborator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the service key actions/exec resolve via
// runtimectx.Service[*Metrics](ctx) to record counters. A nil *Metrics
// receiver is valid and is a no-op, so wiring it is optional.
type Metrics struct {
	StatementsExecuted prometheus.Counter
	ActionsDispatched  *prometheus.CounterVec
	ErrorsByKind       *prometheus.CounterVec
}

// New registers a fresh metric set on reg. Pass prometheus.NewRegistry()
// in tests to avoid colliding with the default global registry across
// parallel test runs.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StatementsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aro",
			Name:      "statements_executed_total",
			Help:      "Total ARO statements executed across all feature-set activations.",
		}),
		ActionsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aro",
			Name:      "actions_dispatched_total",
			Help:      "Total action invocations by verb.",
		}, []string{"verb"}),
		ErrorsByKind: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aro",
			Name:      "errors_total",
			Help:      "Total ActionError occurrences by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.StatementsExecuted, m.ActionsDispatched, m.ErrorsByKind)
	return m
}

func (m *Metrics) RecordStatement() {
	if m == nil {
		return
	}
	m.StatementsExecuted.Inc()
}

func (m *Metrics) RecordDispatch(verb string) {
	if m == nil {
		return
	}
	m.ActionsDispatched.WithLabelValues(verb).Inc()
}

func (m *Metrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.ErrorsByKind.WithLabelValues(kind).Inc()
}
