package rag

import (
	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// Capability is the optional hook set a domain wrapper supplies to customize
// retrieval and validation. Every hook may be nil; each call site checks
// presence explicitly and substitutes the documented core default. The
// capability object is always passed into orchestrator calls, never resolved
// from any global.
type Capability struct {
	// ExpandSeeds overrides subgraph seed selection. It receives the live
	// store, the query's seeds and the effective config and returns the node
	// identifiers the KG slice should expand from.
	// Default: the query's seeds unchanged.
	ExpandSeeds func(store *graph.Store, seeds []string, cfg Config) ([]string, error)

	// BuildMetadataFilter derives a vector routing filter from the KG slice.
	// Only consulted when Config.RouteByMetadata is set.
	// Default: empty filter.
	BuildMetadataFilter func(slice *graph.Snapshot) map[string]string

	// CheckConsistency checks a draft text against the live store.
	// Default: {OK: true, Issues: []}.
	CheckConsistency func(draft string, store *graph.Store) ConsistencyResult
}

// expandSeeds resolves the effective seed set for expansion.
func (c *Capability) expandSeeds(store *graph.Store, seeds []string, cfg Config) ([]string, error) {
	if c == nil || c.ExpandSeeds == nil {
		return seeds, nil
	}
	return c.ExpandSeeds(store, seeds, cfg)
}

// metadataFilter resolves the routing filter for the vector search.
func (c *Capability) metadataFilter(slice *graph.Snapshot) map[string]string {
	if c == nil || c.BuildMetadataFilter == nil {
		return map[string]string{}
	}
	filter := c.BuildMetadataFilter(slice)
	if filter == nil {
		return map[string]string{}
	}
	return filter
}

// checkConsistency resolves the consistency verdict for a draft.
func (c *Capability) checkConsistency(draft string, store *graph.Store) ConsistencyResult {
	if c == nil || c.CheckConsistency == nil {
		return ConsistencyResult{OK: true, Issues: []string{}}
	}
	return c.CheckConsistency(draft, store)
}
