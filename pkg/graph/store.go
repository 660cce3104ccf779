package graph

import (
	"sync"

	"github.com/google/uuid"
)

// OpRecorder receives store operation outcomes for instrumentation.
// pkg/metrics provides a prometheus-backed implementation.
type OpRecorder interface {
	RecordGraphOperation(op, status string)
	SetGraphSize(nodes, edges int)
}

// Store is an in-memory property-graph store. It owns node/edge identity and
// attributes and preserves insertion order for deterministic iteration and
// lossless snapshots.
//
// All operations are safe for concurrent readers; the design assumes a single
// logical writer. Reads return deep copies, so returned values never alias
// live store state.
type Store struct {
	mu sync.RWMutex

	nodes map[string]*Node
	edges map[string]*Edge

	// Insertion order of identifiers, maintained across deletes
	nodeOrder []string
	edgeOrder []string

	// Creation sequence numbers, used for deterministic tie-breaks
	nodeSeq map[string]uint64
	nextSeq uint64

	// Label indexes (insertion order within each label)
	nodesByLabel map[string][]string
	edgesByLabel map[string][]string

	// Adjacency lists: node ID -> edge IDs in insertion order
	outgoing map[string][]string
	incoming map[string][]string

	recorder OpRecorder
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder attaches an operation recorder (e.g. a metrics registry).
func WithRecorder(r OpRecorder) Option {
	return func(s *Store) { s.recorder = r }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		nodes:        make(map[string]*Node),
		edges:        make(map[string]*Edge),
		nodeSeq:      make(map[string]uint64),
		nodesByLabel: make(map[string][]string),
		edgesByLabel: make(map[string][]string),
		outgoing:     make(map[string][]string),
		incoming:     make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record reports an operation outcome to the attached recorder, if any.
func (s *Store) record(op string, err error) {
	if s.recorder == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.recorder.RecordGraphOperation(op, status)
	if err == nil {
		s.recorder.SetGraphSize(len(s.nodeOrder), len(s.edgeOrder))
	}
}

// newID returns id unchanged, or a generated UUID when id is empty.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// HasNode reports whether a node exists.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports whether an edge exists.
func (s *Store) HasEdge(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.edges[id]
	return ok
}

// NodeCount returns the number of nodes in the store.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodeOrder)
}

// EdgeCount returns the number of edges in the store.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edgeOrder)
}

// NodeSeq returns the creation sequence number of a node. Later-created nodes
// have strictly larger sequence numbers.
func (s *Store) NodeSeq(id string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq, ok := s.nodeSeq[id]
	return seq, ok
}

// Nodes returns all nodes in insertion order.
func (s *Store) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id].Clone())
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (s *Store) Edges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]*Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		edges = append(edges, s.edges[id].Clone())
	}
	return edges
}

// Labels returns all distinct node labels present in the store.
func (s *Store) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := make([]string, 0, len(s.nodesByLabel))
	for label, ids := range s.nodesByLabel {
		if len(ids) > 0 {
			labels = append(labels, label)
		}
	}
	return labels
}

// removeFromList removes the first occurrence of id from list, preserving
// the order of the remaining entries.
func removeFromList(list []string, id string) []string {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
