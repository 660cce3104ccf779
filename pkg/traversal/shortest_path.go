package traversal

import (
	"container/list"

	"github.com/dd0wney/cluso-kgrag/pkg/graph"
)

// ShortestPath finds a shortest unweighted path from a to b along edge
// direction, restricted to the given edge-label allow-list (nil allows all).
// Returns the node identifiers from a to b inclusive, or nil when no path
// exists. When several shortest paths exist the one discovered first wins;
// neighbor candidates are visited in edge insertion order, so the result is
// deterministic for a fixed store state.
// Fails with ErrNodeNotFound if either endpoint is absent.
func (e *Engine) ShortestPath(a, b string, edgeLabels []string) ([]string, error) {
	if !e.store.HasNode(a) || !e.store.HasNode(b) {
		return nil, graph.ErrNodeNotFound
	}
	if a == b {
		return []string{a}, nil
	}

	allowed := newLabelSet(edgeLabels)

	parent := map[string]string{a: a}
	queue := list.New()
	queue.PushBack(a)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(string)

		for _, edge := range e.store.OutgoingEdges(currentID) {
			if !allowed.allows(edge.Label) {
				continue
			}
			neighborID := edge.To
			if _, seen := parent[neighborID]; seen {
				continue
			}
			parent[neighborID] = currentID

			if neighborID == b {
				return reconstructPath(a, b, parent), nil
			}
			queue.PushBack(neighborID)
		}
	}

	return nil, nil // no path
}

// reconstructPath walks parent pointers back from end to start and reverses.
func reconstructPath(start, end string, parent map[string]string) []string {
	path := []string{end}
	node := end
	for node != start {
		node = parent[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// HopDistances returns the shortest hop count from source to every reachable
// node along edge direction, restricted to the label allow-list.
func (e *Engine) HopDistances(source string, edgeLabels []string) (map[string]int, error) {
	if !e.store.HasNode(source) {
		return nil, graph.ErrNodeNotFound
	}

	allowed := newLabelSet(edgeLabels)
	distances := map[string]int{source: 0}

	queue := list.New()
	queue.PushBack(source)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(string)
		currentDist := distances[currentID]

		for _, edge := range e.store.OutgoingEdges(currentID) {
			if !allowed.allows(edge.Label) {
				continue
			}
			if _, seen := distances[edge.To]; !seen {
				distances[edge.To] = currentDist + 1
				queue.PushBack(edge.To)
			}
		}
	}

	return distances, nil
}
