// Package traversal provides read-only neighbor queries, shortest paths and
// bounded subgraph extraction over a graph.Store. The engine never mutates
// the store; results are deterministic for a fixed store state because the
// store iterates adjacency lists in edge insertion order.
package traversal

import (
	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// Direction selects which incident edges a traversal step follows.
type Direction string

const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// Engine performs traversals over a store.
type Engine struct {
	store *graph.Store
}

// NewEngine creates a traversal engine over the given store.
func NewEngine(store *graph.Store) *Engine {
	return &Engine{store: store}
}

// labelSet converts an edge-label allow-list into a lookup set.
// A nil or empty list allows every label.
type labelSet map[string]bool

func newLabelSet(labels []string) labelSet {
	if len(labels) == 0 {
		return nil
	}
	set := make(labelSet, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}

func (s labelSet) allows(label string) bool {
	return s == nil || s[label]
}

// Neighbors returns the identifiers of nodes reachable by one edge in the
// requested direction, optionally filtered to one edge label. Results are
// deduplicated and ordered by edge insertion order (outgoing before incoming
// for DirectionBoth). Fails with ErrNodeNotFound if id is absent.
func (e *Engine) Neighbors(id string, dir Direction, edgeLabel string) ([]string, error) {
	if !e.store.HasNode(id) {
		return nil, graph.ErrNodeNotFound
	}

	seen := make(map[string]bool)
	neighbors := make([]string, 0)

	appendNeighbor := func(nodeID string) {
		if !seen[nodeID] {
			seen[nodeID] = true
			neighbors = append(neighbors, nodeID)
		}
	}

	if dir == DirectionOut || dir == DirectionBoth {
		for _, edge := range e.store.OutgoingEdges(id) {
			if edgeLabel != "" && edge.Label != edgeLabel {
				continue
			}
			appendNeighbor(edge.To)
		}
	}
	if dir == DirectionIn || dir == DirectionBoth {
		for _, edge := range e.store.IncomingEdges(id) {
			if edgeLabel != "" && edge.Label != edgeLabel {
				continue
			}
			appendNeighbor(edge.From)
		}
	}

	return neighbors, nil
}
