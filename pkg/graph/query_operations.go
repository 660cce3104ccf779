package graph

// FindNodes returns the identifiers of all nodes matching the filter, in
// creation order. Every property key in the filter must be present with a
// deep-equal value; unspecified keys are unconstrained.
func (s *Store) FindNodes(filter NodeFilter) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Scan the label index when a label is given, the full order otherwise
	candidates := s.nodeOrder
	if filter.Label != "" {
		candidates = s.nodesByLabel[filter.Label]
	}

	ids := make([]string, 0)
	for _, id := range candidates {
		node := s.nodes[id]
		if filter.Label != "" && node.Label != filter.Label {
			continue
		}
		if !matchProps(node.Props, filter.Props) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// FindEdges returns the identifiers of all edges matching the filter, in
// creation order. Label, endpoints and property subset are matched the same
// way as FindNodes.
func (s *Store) FindEdges(filter EdgeFilter) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.edgeOrder
	if filter.Label != "" {
		candidates = s.edgesByLabel[filter.Label]
	}

	ids := make([]string, 0)
	for _, id := range candidates {
		edge := s.edges[id]
		if filter.Label != "" && edge.Label != filter.Label {
			continue
		}
		if filter.From != "" && edge.From != filter.From {
			continue
		}
		if filter.To != "" && edge.To != filter.To {
			continue
		}
		if !matchProps(edge.Props, filter.Props) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// FindNodesByLabel returns all nodes with the given label, in creation order.
func (s *Store) FindNodesByLabel(label string) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.nodesByLabel[label]
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, s.nodes[id].Clone())
	}
	return nodes
}

// FindEdgesByLabel returns all edges with the given label, in creation order.
func (s *Store) FindEdgesByLabel(label string) []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildEdgeList(s.edgesByLabel[label])
}
