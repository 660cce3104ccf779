// Package rag composes bounded subgraph extraction with an external vector
// search capability to build context bundles for generation callers, and
// gates draft text against wrapper-supplied consistency rules. The
// orchestrator never mutates the store: it works over a snapshot taken at
// call time.
package rag

import (
	"context"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// Query is a retrieval request.
type Query struct {
	// Text is the free-text query forwarded to the vector search capability.
	Text string
	// Seeds are optional node identifiers anchoring the KG expansion.
	Seeds []string
	// Scope is an opaque map passed through to domain capabilities.
	Scope map[string]string
	// MaxPromptTokens bounds the size of the returned passages; 0 means no
	// budget.
	MaxPromptTokens int
}

// VectorHit is one passage returned by the external search capability.
// The core never produces hits itself.
type VectorHit struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ContextBundle is the combined retrieval result handed to a generation
// caller: a bounded KG slice, ranked passages and free-text notes about how
// the bundle was produced.
type ContextBundle struct {
	KGSlice  *graph.Snapshot `json:"kgSlice"`
	Passages []VectorHit     `json:"passages"`
	Notes    []string        `json:"notes,omitempty"`
}

// ConsistencyResult reports semantic rule checks over a draft text. Issues
// are data, never a hard failure.
type ConsistencyResult struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues"`
}

// Searcher is the external vector search capability. It is treated as a
// black box; failures or timeouts never abort a context build.
type Searcher interface {
	Search(ctx context.Context, text string, filter map[string]string, k int) ([]VectorHit, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, text string, filter map[string]string, k int) ([]VectorHit, error)

func (f SearcherFunc) Search(ctx context.Context, text string, filter map[string]string, k int) ([]VectorHit, error) {
	return f(ctx, text, filter, k)
}

// NoteVectorUnavailable is appended to a bundle's notes when the vector
// search capability failed or timed out and the bundle degraded to KG-only.
const NoteVectorUnavailable = "vector_search_unavailable"
