package graph

import "time"

// CreateEdge creates a new directed edge from one node identifier to another.
// An empty id asks the store to generate one; a caller-supplied id that
// already exists fails with ErrDuplicateID.
//
// Endpoint existence is deliberately NOT checked here. Bulk ingestion may
// create edges before their endpoints in any order; referential integrity is
// reported by the structural validation pass instead.
func (s *Store) CreateEdge(id, label, from, to string, props map[string]any) (*Edge, error) {
	edge, err := s.createEdge(id, label, from, to, props)
	s.record("CreateEdge", err)
	if err != nil {
		return nil, err
	}
	return edge.Clone(), nil
}

func (s *Store) createEdge(id, label, from, to string, props map[string]any) (*Edge, error) {
	if label == "" {
		return nil, edgeError("CreateEdge", id, ErrEmptyLabel)
	}
	normalized, err := NormalizeProps(props)
	if err != nil {
		return nil, edgeError("CreateEdge", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edgeID := newID(id)
	if _, exists := s.edges[edgeID]; exists {
		return nil, edgeError("CreateEdge", edgeID, ErrDuplicateID)
	}

	edge := &Edge{
		ID:        edgeID,
		Label:     label,
		From:      from,
		To:        to,
		Props:     normalized,
		CreatedAt: time.Now().Unix(),
	}

	s.edges[edgeID] = edge
	s.edgeOrder = append(s.edgeOrder, edgeID)
	s.edgesByLabel[label] = append(s.edgesByLabel[label], edgeID)
	s.outgoing[from] = append(s.outgoing[from], edgeID)
	s.incoming[to] = append(s.incoming[to], edgeID)

	return edge, nil
}

// GetEdge retrieves an edge by ID.
func (s *Store) GetEdge(id string) (*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, exists := s.edges[id]
	if !exists {
		return nil, edgeError("GetEdge", id, ErrEdgeNotFound)
	}
	return edge.Clone(), nil
}

// UpdateEdge merges the given partial property map into the edge's existing
// properties. Label and endpoints cannot be changed.
func (s *Store) UpdateEdge(id string, props map[string]any) error {
	err := s.updateEdge(id, props)
	s.record("UpdateEdge", err)
	return err
}

func (s *Store) updateEdge(id string, props map[string]any) error {
	normalized, err := NormalizeProps(props)
	if err != nil {
		return edgeError("UpdateEdge", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edge, exists := s.edges[id]
	if !exists {
		return edgeError("UpdateEdge", id, ErrEdgeNotFound)
	}

	for k, v := range normalized {
		edge.Props[k] = v
	}

	return nil
}

// DeleteEdge removes only that edge.
func (s *Store) DeleteEdge(id string) error {
	err := s.deleteEdge(id)
	s.record("DeleteEdge", err)
	return err
}

func (s *Store) deleteEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.edges[id]; !exists {
		return edgeError("DeleteEdge", id, ErrEdgeNotFound)
	}
	s.removeEdgeLocked(id)
	return nil
}

// removeEdgeLocked removes an edge from every index. Caller must hold the
// write lock.
func (s *Store) removeEdgeLocked(id string) {
	edge, exists := s.edges[id]
	if !exists {
		return
	}

	s.outgoing[edge.From] = removeFromList(s.outgoing[edge.From], id)
	s.incoming[edge.To] = removeFromList(s.incoming[edge.To], id)
	s.edgesByLabel[edge.Label] = removeFromList(s.edgesByLabel[edge.Label], id)
	s.edgeOrder = removeFromList(s.edgeOrder, id)
	delete(s.edges, id)
}

// OutgoingEdges returns all edges leaving a node, in insertion order.
// Returns an empty slice for unknown nodes.
func (s *Store) OutgoingEdges(id string) []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildEdgeList(s.outgoing[id])
}

// IncomingEdges returns all edges arriving at a node, in insertion order.
// Returns an empty slice for unknown nodes.
func (s *Store) IncomingEdges(id string) []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildEdgeList(s.incoming[id])
}

// Degree returns the number of edges incident to a node, incoming plus
// outgoing.
func (s *Store) Degree(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outgoing[id]) + len(s.incoming[id])
}

// buildEdgeList converts a slice of edge IDs to cloned edges. Caller must
// hold at least the read lock.
func (s *Store) buildEdgeList(edgeIDs []string) []*Edge {
	edges := make([]*Edge, 0, len(edgeIDs))
	for _, id := range edgeIDs {
		if edge, exists := s.edges[id]; exists {
			edges = append(edges, edge.Clone())
		}
	}
	return edges
}
