package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telemetry exposes the planner's prometheus instruments. A nil *Telemetry
// is valid and records nothing, so components can be tested without a
// registry.
type Telemetry struct {
	planRequests        *prometheus.CounterVec
	planDuration        *prometheus.HistogramVec
	reasonerDecisions   *prometheus.CounterVec
	reasonerFailures    prometheus.Counter
	controllerFallbacks prometheus.Counter
	catalogSearches     *prometheus.CounterVec
}

// New registers the planner instruments against the given registerer.
func New(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		planRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vivi_plan_requests_total",
			Help: "Planning requests by orchestration mode.",
		}, []string{"mode"}),
		planDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vivi_plan_duration_seconds",
			Help:    "End-to-end planning latency by orchestration mode.",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		reasonerDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vivi_reasoner_decisions_total",
			Help: "Actions returned by the step reasoner.",
		}, []string{"action"}),
		reasonerFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vivi_reasoner_failures_total",
			Help: "Reasoner calls that failed or returned nothing usable.",
		}),
		controllerFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "vivi_controller_fallbacks_total",
			Help: "Agentic runs that fell back to the deterministic pipeline.",
		}),
		catalogSearches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vivi_catalog_searches_total",
			Help: "Candidate searches by provider.",
		}, []string{"provider"}),
	}
}

// PlanStarted counts one planning request for the given mode.
func (t *Telemetry) PlanStarted(mode string) {
	if t == nil {
		return
	}
	t.planRequests.WithLabelValues(mode).Inc()
}

// ObservePlanDuration records end-to-end planning latency.
func (t *Telemetry) ObservePlanDuration(mode string, d time.Duration) {
	if t == nil {
		return
	}
	t.planDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ReasonerDecision counts one decided action.
func (t *Telemetry) ReasonerDecision(action string) {
	if t == nil {
		return
	}
	t.reasonerDecisions.WithLabelValues(action).Inc()
}

// ReasonerFailure counts one unusable reasoner response.
func (t *Telemetry) ReasonerFailure() {
	if t == nil {
		return
	}
	t.reasonerFailures.Inc()
}

// ControllerFallback counts one deterministic fallback.
func (t *Telemetry) ControllerFallback() {
	if t == nil {
		return
	}
	t.controllerFallbacks.Inc()
}

// CatalogSearch counts one provider search.
func (t *Telemetry) CatalogSearch(provider string) {
	if t == nil {
		return
	}
	t.catalogSearches.WithLabelValues(provider).Inc()
}
