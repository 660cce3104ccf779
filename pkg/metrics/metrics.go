// Package metrics exposes prometheus instrumentation for the graph store and
// the retrieval orchestrator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the engine
type Registry struct {
	registry *prometheus.Registry

	// Graph store metrics
	GraphNodesTotal      prometheus.Gauge
	GraphEdgesTotal      prometheus.Gauge
	GraphOperationsTotal *prometheus.CounterVec

	// Validation metrics
	ValidationRunsTotal   *prometheus.CounterVec
	ValidationIssuesTotal *prometheus.CounterVec

	// Retrieval metrics
	ContextBuildsTotal    *prometheus.CounterVec
	ContextBuildDuration  prometheus.Histogram
	VectorSearchDuration  prometheus.Histogram
	RetrievalDegradations prometheus.Counter
}

// NewRegistry creates a registry with all metrics registered on a private
// prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgrag_graph_nodes_total",
			Help: "Total number of nodes in the graph store",
		},
	)
	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "kgrag_graph_edges_total",
			Help: "Total number of edges in the graph store",
		},
	)
	r.GraphOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgrag_graph_operations_total",
			Help: "Total number of graph store operations",
		},
		[]string{"operation", "status"},
	)

	r.ValidationRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgrag_validation_runs_total",
			Help: "Total number of structural validation passes",
		},
		[]string{"status"},
	)
	r.ValidationIssuesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgrag_validation_issues_total",
			Help: "Total number of structural issues reported",
		},
		[]string{"kind"},
	)

	r.ContextBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "kgrag_context_builds_total",
			Help: "Total number of context bundle builds",
		},
		[]string{"status"},
	)
	r.ContextBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgrag_context_build_duration_seconds",
			Help:    "Context bundle build duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)
	r.VectorSearchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kgrag_vector_search_duration_seconds",
			Help:    "External vector search call duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)
	r.RetrievalDegradations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "kgrag_retrieval_degradations_total",
			Help: "Context builds that fell back to a KG-only bundle",
		},
	)

	return r
}

// RecordGraphOperation records a store operation outcome. Implements the
// graph.OpRecorder interface.
func (r *Registry) RecordGraphOperation(op, status string) {
	r.GraphOperationsTotal.WithLabelValues(op, status).Inc()
}

// SetGraphSize updates the node/edge gauges. Implements graph.OpRecorder.
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

// RecordValidation records a validation pass and its issue kinds.
func (r *Registry) RecordValidation(ok bool, issueKinds []string) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.ValidationRunsTotal.WithLabelValues(status).Inc()
	for _, kind := range issueKinds {
		r.ValidationIssuesTotal.WithLabelValues(kind).Inc()
	}
}

// RecordContextBuild records a bundle build with its duration.
func (r *Registry) RecordContextBuild(status string, duration time.Duration) {
	r.ContextBuildsTotal.WithLabelValues(status).Inc()
	r.ContextBuildDuration.Observe(duration.Seconds())
}

// RecordVectorSearch records the external search call.
func (r *Registry) RecordVectorSearch(duration time.Duration, degraded bool) {
	r.VectorSearchDuration.Observe(duration.Seconds())
	if degraded {
		r.RetrievalDegradations.Inc()
	}
}

// Handler returns an HTTP handler exposing the registry in prometheus text
// format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry for tests.
func (r *Registry) Gather() prometheus.Gatherer {
	return r.registry
}
