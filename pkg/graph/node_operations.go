package graph

import "time"

// CreateNode creates a new node. An empty id asks the store to generate one.
// A caller-supplied id that already exists fails with ErrDuplicateID.
func (s *Store) CreateNode(id, label string, props map[string]any) (*Node, error) {
	node, err := s.createNode(id, label, props)
	s.record("CreateNode", err)
	if err != nil {
		return nil, err
	}
	return node.Clone(), nil
}

func (s *Store) createNode(id, label string, props map[string]any) (*Node, error) {
	if label == "" {
		return nil, nodeError("CreateNode", id, ErrEmptyLabel)
	}
	normalized, err := NormalizeProps(props)
	if err != nil {
		return nil, nodeError("CreateNode", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nodeID := newID(id)
	if _, exists := s.nodes[nodeID]; exists {
		return nil, nodeError("CreateNode", nodeID, ErrDuplicateID)
	}

	now := time.Now().Unix()
	node := &Node{
		ID:        nodeID,
		Label:     label,
		Props:     normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.nodes[nodeID] = node
	s.nodeOrder = append(s.nodeOrder, nodeID)
	s.nextSeq++
	s.nodeSeq[nodeID] = s.nextSeq
	s.nodesByLabel[label] = append(s.nodesByLabel[label], nodeID)

	return node, nil
}

// GetNode retrieves a node by ID.
func (s *Store) GetNode(id string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, exists := s.nodes[id]
	if !exists {
		return nil, nodeError("GetNode", id, ErrNodeNotFound)
	}
	return node.Clone(), nil
}

// UpdateNode merges the given partial property map into the node's existing
// properties. Keys not mentioned are preserved.
func (s *Store) UpdateNode(id string, props map[string]any) error {
	err := s.updateNode(id, props)
	s.record("UpdateNode", err)
	return err
}

func (s *Store) updateNode(id string, props map[string]any) error {
	normalized, err := NormalizeProps(props)
	if err != nil {
		return nodeError("UpdateNode", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, exists := s.nodes[id]
	if !exists {
		return nodeError("UpdateNode", id, ErrNodeNotFound)
	}

	for k, v := range normalized {
		node.Props[k] = v
	}
	node.UpdatedAt = time.Now().Unix()

	return nil
}

// DeleteNode removes the node and cascades deletion of every incident edge,
// incoming or outgoing.
func (s *Store) DeleteNode(id string) error {
	err := s.deleteNode(id)
	s.record("DeleteNode", err)
	return err
}

func (s *Store) deleteNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, exists := s.nodes[id]
	if !exists {
		return nodeError("DeleteNode", id, ErrNodeNotFound)
	}

	// Cascade delete incident edges. Copy the lists since removeEdgeLocked
	// mutates the adjacency maps.
	outgoing := append([]string(nil), s.outgoing[id]...)
	incoming := append([]string(nil), s.incoming[id]...)
	for _, edgeID := range outgoing {
		s.removeEdgeLocked(edgeID)
	}
	for _, edgeID := range incoming {
		s.removeEdgeLocked(edgeID)
	}

	s.nodesByLabel[node.Label] = removeFromList(s.nodesByLabel[node.Label], id)
	s.nodeOrder = removeFromList(s.nodeOrder, id)
	delete(s.nodeSeq, id)
	delete(s.nodes, id)
	delete(s.outgoing, id)
	delete(s.incoming, id)

	return nil
}
