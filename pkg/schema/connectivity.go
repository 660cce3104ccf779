package schema

import (
	"fmt"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// reportDisconnected finds weakly-connected components, treating edges as
// undirected, and emits a warning for every component beyond the first.
// Components are discovered in node creation order, so the first component
// is the one containing the earliest-created node.
func reportDisconnected(store *graph.Store, result *Result) {
	nodes := store.Nodes()
	if len(nodes) == 0 {
		return
	}

	visited := make(map[string]bool, len(nodes))
	components := 0

	for _, node := range nodes {
		if visited[node.ID] {
			continue
		}
		components++
		size := flood(store, node.ID, visited)

		if components > 1 {
			result.add(Issue{
				Kind:     DisconnectedComponent,
				Severity: Warning,
				NodeID:   node.ID,
				Message: fmt.Sprintf("disconnected component of %d node(s) starting at %q",
					size, node.ID),
			})
		}
	}
}

// flood marks every node weakly reachable from start and returns the count.
func flood(store *graph.Store, start string, visited map[string]bool) int {
	queue := []string{start}
	visited[start] = true
	size := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		size++

		for _, edge := range store.OutgoingEdges(id) {
			if store.HasNode(edge.To) && !visited[edge.To] {
				visited[edge.To] = true
				queue = append(queue, edge.To)
			}
		}
		for _, edge := range store.IncomingEdges(id) {
			if store.HasNode(edge.From) && !visited[edge.From] {
				visited[edge.From] = true
				queue = append(queue, edge.From)
			}
		}
	}
	return size
}
