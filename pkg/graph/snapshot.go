package graph

import (
	"encoding/json"
	"fmt"
)

// SnapshotNode is the fixed interop shape for a serialized node.
type SnapshotNode struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Props map[string]any `json:"props"`
}

// SnapshotEdge is the fixed interop shape for a serialized edge.
type SnapshotEdge struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	From  string         `json:"from"`
	To    string         `json:"to"`
	Props map[string]any `json:"props"`
}

// Snapshot is a pure, point-in-time copy of store state: node and edge lists
// in insertion order. It never aliases live store state and is owned solely
// by its caller.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// NodeIDs returns the snapshot's node identifiers in order.
func (s *Snapshot) NodeIDs() []string {
	ids := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// HasNode reports whether the snapshot contains a node.
func (s *Snapshot) HasNode(id string) bool {
	for _, n := range s.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Snapshot produces a snapshot reflecting current store state, preserving
// insertion order.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Nodes: make([]SnapshotNode, 0, len(s.nodeOrder)),
		Edges: make([]SnapshotEdge, 0, len(s.edgeOrder)),
	}

	for _, id := range s.nodeOrder {
		node := s.nodes[id]
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			ID:    node.ID,
			Label: node.Label,
			Props: cloneProps(node.Props),
		})
	}
	for _, id := range s.edgeOrder {
		edge := s.edges[id]
		snap.Edges = append(snap.Edges, SnapshotEdge{
			ID:    edge.ID,
			Label: edge.Label,
			From:  edge.From,
			To:    edge.To,
			Props: cloneProps(edge.Props),
		})
	}

	return snap
}

// LoadSnapshot replaces the entire store with the snapshot's contents, as if
// loaded from empty. Fails with ErrDuplicateID if the snapshot itself
// contains two nodes or two edges with the same identifier; the store is left
// unchanged on failure.
func (s *Store) LoadSnapshot(snap *Snapshot) error {
	// Build the replacement state aside, swap only on success
	replacement := NewStore()

	for _, n := range snap.Nodes {
		if n.ID == "" {
			return fmt.Errorf("load snapshot: node with empty id")
		}
		if _, err := replacement.createNode(n.ID, n.Label, n.Props); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}
	for _, e := range snap.Edges {
		if e.ID == "" {
			return fmt.Errorf("load snapshot: edge with empty id")
		}
		if _, err := replacement.createEdge(e.ID, e.Label, e.From, e.To, e.Props); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	s.mu.Lock()
	s.nodes = replacement.nodes
	s.edges = replacement.edges
	s.nodeOrder = replacement.nodeOrder
	s.edgeOrder = replacement.edgeOrder
	s.nodeSeq = replacement.nodeSeq
	s.nextSeq = replacement.nextSeq
	s.nodesByLabel = replacement.nodesByLabel
	s.edgesByLabel = replacement.edgesByLabel
	s.outgoing = replacement.outgoing
	s.incoming = replacement.incoming
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.RecordGraphOperation("LoadSnapshot", "ok")
		s.recorder.SetGraphSize(len(snap.Nodes), len(snap.Edges))
	}
	return nil
}

// EncodeJSON serializes a snapshot to JSON using the fixed interop format.
func (snap *Snapshot) EncodeJSON() ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshotJSON parses a snapshot from its JSON form.
func DecodeSnapshotJSON(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
