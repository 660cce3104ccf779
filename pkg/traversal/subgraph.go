package traversal

import (
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// SubgraphOptions configures bounded subgraph extraction.
type SubgraphOptions struct {
	Depth      int      // hops to expand; 0 returns the existing seeds only
	EdgeLabels []string // traversal allow-list; nil means all labels
	MaxNodes   int      // node budget; <= 0 means unlimited
}

// Subgraph expands breadth-first from the seed set, traversing only edges
// whose label is allowed, up to Depth hops in either direction. Seeds that do
// not exist in the store are skipped.
//
// When admitting a BFS layer would push the node count past MaxNodes, the
// layer's candidates are ranked by current degree — the number of incident
// edges connecting them to the already-admitted slice — descending, ties
// broken by node creation order, and only the highest-ranked candidates are
// admitted until the budget is exhausted. The rest of that layer and all
// deeper layers are dropped. Well-connected context wins over breadth.
//
// For Depth > 0 the returned snapshot includes every edge whose endpoints are
// both admitted; Depth 0 yields no edges. Two calls with identical arguments
// on an unchanged store return identical snapshots.
func (e *Engine) Subgraph(seeds []string, opts SubgraphOptions) (*graph.Snapshot, error) {
	if opts.Depth < 0 {
		return nil, fmt.Errorf("subgraph: depth must be >= 0, got %d", opts.Depth)
	}

	allowed := newLabelSet(opts.EdgeLabels)

	admitted := make(map[string]bool)
	order := make([]string, 0, len(seeds))

	admit := func(id string) {
		if !admitted[id] {
			admitted[id] = true
			order = append(order, id)
		}
	}

	// Seed layer: existing seeds in caller order, deduplicated. The budget
	// applies here too; with nothing admitted yet every candidate has degree
	// zero, so ranking falls through to creation order.
	seedLayer := make([]string, 0, len(seeds))
	seedSeen := make(map[string]bool)
	for _, id := range seeds {
		if seedSeen[id] || !e.store.HasNode(id) {
			continue
		}
		seedSeen[id] = true
		seedLayer = append(seedLayer, id)
	}

	truncated := !e.admitLayer(seedLayer, admitted, admit, opts.MaxNodes)

	frontier := append([]string(nil), order...)
	for hop := 0; hop < opts.Depth && !truncated && len(frontier) > 0; hop++ {
		layer := e.collectLayer(frontier, allowed, admitted)
		if len(layer) == 0 {
			break
		}
		before := len(order)
		if !e.admitLayer(layer, admitted, admit, opts.MaxNodes) {
			truncated = true
		}
		frontier = order[before:]
	}

	return e.induce(order, admitted, opts.Depth), nil
}

// collectLayer gathers the next BFS layer: neighbors of the frontier over
// allowed edges in both directions, in discovery order, excluding nodes
// already admitted.
func (e *Engine) collectLayer(frontier []string, allowed labelSet, admitted map[string]bool) []string {
	layer := make([]string, 0)
	seen := make(map[string]bool)

	discover := func(id string) {
		if !admitted[id] && !seen[id] && e.store.HasNode(id) {
			seen[id] = true
			layer = append(layer, id)
		}
	}

	for _, id := range frontier {
		for _, edge := range e.store.OutgoingEdges(id) {
			if allowed.allows(edge.Label) {
				discover(edge.To)
			}
		}
		for _, edge := range e.store.IncomingEdges(id) {
			if allowed.allows(edge.Label) {
				discover(edge.From)
			}
		}
	}
	return layer
}

// admitLayer admits a layer of candidates under the node budget. Returns
// false when the layer had to be truncated, which ends the whole expansion.
func (e *Engine) admitLayer(layer []string, admitted map[string]bool, admit func(string), maxNodes int) bool {
	if maxNodes <= 0 || len(admitted)+len(layer) <= maxNodes {
		for _, id := range layer {
			admit(id)
		}
		return true
	}

	budget := maxNodes - len(admitted)
	if budget <= 0 {
		return false
	}

	ranked := e.rankByDegree(layer, admitted)
	for _, id := range ranked[:budget] {
		admit(id)
	}
	return false
}

// rankByDegree orders candidates by the number of incident edges into the
// admitted set, descending, ties broken by creation order. This is the
// degree-based sampling heuristic: structurally central nodes are kept.
func (e *Engine) rankByDegree(candidates []string, admitted map[string]bool) []string {
	type rankedNode struct {
		id     string
		degree int
		seq    uint64
	}

	ranked := make([]rankedNode, 0, len(candidates))
	for _, id := range candidates {
		degree := 0
		for _, edge := range e.store.OutgoingEdges(id) {
			if admitted[edge.To] {
				degree++
			}
		}
		for _, edge := range e.store.IncomingEdges(id) {
			if admitted[edge.From] {
				degree++
			}
		}
		seq, _ := e.store.NodeSeq(id)
		ranked = append(ranked, rankedNode{id: id, degree: degree, seq: seq})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].degree != ranked[j].degree {
			return ranked[i].degree > ranked[j].degree
		}
		return ranked[i].seq < ranked[j].seq
	})

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.id
	}
	return ids
}

// induce builds the result snapshot: admitted nodes in admission order and,
// for depth > 0, every edge with both endpoints admitted in edge insertion
// order.
func (e *Engine) induce(order []string, admitted map[string]bool, depth int) *graph.Snapshot {
	snap := &graph.Snapshot{
		Nodes: make([]graph.SnapshotNode, 0, len(order)),
		Edges: make([]graph.SnapshotEdge, 0),
	}

	for _, id := range order {
		node, err := e.store.GetNode(id)
		if err != nil {
			continue
		}
		snap.Nodes = append(snap.Nodes, graph.SnapshotNode{
			ID:    node.ID,
			Label: node.Label,
			Props: node.Props,
		})
	}

	if depth == 0 {
		return snap
	}

	for _, edge := range e.store.Edges() {
		if admitted[edge.From] && admitted[edge.To] {
			snap.Edges = append(snap.Edges, graph.SnapshotEdge{
				ID:    edge.ID,
				Label: edge.Label,
				From:  edge.From,
				To:    edge.To,
				Props: edge.Props,
			})
		}
	}

	return snap
}
