package rag

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
	"github.com/dd0wney/cluso-kgrag/pkg/logging"
	"github.com/dd0wney/cluso-kgrag/pkg/metrics"
	"github.com/dd0wney/cluso-kgrag/pkg/traversal"
)

// Orchestrator builds context bundles from the graph store and an external
// vector search capability. Concurrent builds over different queries are
// safe: each owns its own snapshot and bundle.
type Orchestrator struct {
	store    *graph.Store
	engine   *traversal.Engine
	searcher Searcher
	logger   logging.Logger
	registry *metrics.Registry
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger. Defaults to a nop logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// NewOrchestrator creates an orchestrator over a store and a vector search
// capability. searcher may be nil, in which case every build degrades to a
// KG-only bundle.
func NewOrchestrator(store *graph.Store, searcher Searcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		engine:   traversal.NewEngine(store),
		searcher: searcher,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(logging.Component("rag"))
	return o
}

// BuildContext runs the retrieval pipeline: expand the KG slice, derive a
// routing filter, call the vector search capability and assemble a bundle.
//
// The vector search call is the only suspension point; it honors ctx plus
// Config.VectorTimeout. Its failure or timeout never fails the build — the
// bundle degrades to the KG slice with a NoteVectorUnavailable note.
func (o *Orchestrator) BuildContext(ctx context.Context, q Query, cfg Config, capability *Capability) (*ContextBundle, error) {
	started := time.Now()

	cfg, err := cfg.Normalize()
	if err != nil {
		o.recordBuild("invalid", started)
		return nil, err
	}

	// Expand
	seeds, err := capability.expandSeeds(o.store, q.Seeds, cfg)
	if err != nil {
		o.recordBuild("error", started)
		return nil, fmt.Errorf("expand seeds: %w", err)
	}
	slice, err := o.engine.Subgraph(seeds, traversal.SubgraphOptions{
		Depth:      cfg.ExpandHops,
		EdgeLabels: cfg.AllowedEdgeLabels,
		MaxNodes:   cfg.MaxKGNodes,
	})
	if err != nil {
		o.recordBuild("error", started)
		return nil, fmt.Errorf("expand subgraph: %w", err)
	}

	// Route
	filter := map[string]string{}
	if cfg.RouteByMetadata {
		filter = capability.metadataFilter(slice)
	}

	// Retrieve
	bundle := &ContextBundle{
		KGSlice:  slice,
		Passages: []VectorHit{},
	}

	hits, searchErr := o.search(ctx, q.Text, filter, cfg)
	if searchErr != nil {
		o.logger.Warn("vector search unavailable, returning KG-only bundle",
			logging.Error(searchErr),
			logging.Int("kg_nodes", len(slice.Nodes)))
		bundle.Notes = append(bundle.Notes, NoteVectorUnavailable)
		o.recordBuild("degraded", started)
		return bundle, nil
	}

	// Bundle
	bundle.Passages = truncateByBudget(hits, q.MaxPromptTokens)

	o.logger.Debug("context bundle built",
		logging.Int("kg_nodes", len(slice.Nodes)),
		logging.Int("kg_edges", len(slice.Edges)),
		logging.Int("passages", len(bundle.Passages)))
	o.recordBuild("ok", started)
	return bundle, nil
}

// search calls the external capability under the configured deadline.
func (o *Orchestrator) search(ctx context.Context, text string, filter map[string]string, cfg Config) ([]VectorHit, error) {
	if o.searcher == nil {
		return nil, fmt.Errorf("no vector search capability configured")
	}

	if cfg.VectorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.VectorTimeout)
		defer cancel()
	}

	started := time.Now()
	hits, err := o.searcher.Search(ctx, text, filter, cfg.VectorK)
	if o.registry != nil {
		o.registry.RecordVectorSearch(time.Since(started), err != nil)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

// CheckConsistency forwards a draft text and the live store to the domain
// capability. Without a hook the core performs no semantic validation and
// the draft passes.
func (o *Orchestrator) CheckConsistency(draft string, capability *Capability) ConsistencyResult {
	return capability.checkConsistency(draft, o.store)
}

// truncateByBudget orders hits by descending score (stable for equal scores)
// and keeps them while the estimated token count fits the budget. A zero
// budget keeps everything.
func truncateByBudget(hits []VectorHit, maxPromptTokens int) []VectorHit {
	ranked := append([]VectorHit(nil), hits...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if maxPromptTokens <= 0 {
		return ranked
	}

	kept := make([]VectorHit, 0, len(ranked))
	budget := maxPromptTokens
	for _, hit := range ranked {
		cost := estimateTokens(hit.Text)
		if cost > budget {
			break
		}
		budget -= cost
		kept = append(kept, hit)
	}
	return kept
}

// estimateTokens approximates the token count of a passage. Four characters
// per token is the usual rough cut for English text.
func estimateTokens(text string) int {
	n := (len(text) + 3) / 4
	if n == 0 {
		n = 1
	}
	return n
}

// recordBuild reports a finished build to the metrics registry.
func (o *Orchestrator) recordBuild(status string, started time.Time) {
	if o.registry != nil {
		o.registry.RecordContextBuild(status, time.Since(started))
	}
}
