package graph

// Node represents a vertex in the graph. The label is immutable after
// creation; only Props may change.
type Node struct {
	ID        string
	Label     string
	Props     map[string]any
	CreatedAt int64
	UpdatedAt int64
}

// Edge represents a directed relationship between two nodes. Label and
// endpoints are immutable after creation; only Props may change.
// Endpoints are not required to exist at creation time — referential
// integrity is checked by an explicit validation pass (pkg/schema).
type Edge struct {
	ID        string
	Label     string
	From      string
	To        string
	Props     map[string]any
	CreatedAt int64
}

// Clone creates a deep copy of a node
func (n *Node) Clone() *Node {
	return &Node{
		ID:        n.ID,
		Label:     n.Label,
		Props:     cloneProps(n.Props),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// GetProp gets a property value
func (n *Node) GetProp(key string) (any, bool) {
	val, ok := n.Props[key]
	return val, ok
}

// Clone creates a deep copy of an edge
func (e *Edge) Clone() *Edge {
	return &Edge{
		ID:        e.ID,
		Label:     e.Label,
		From:      e.From,
		To:        e.To,
		Props:     cloneProps(e.Props),
		CreatedAt: e.CreatedAt,
	}
}

// GetProp gets a property value
func (e *Edge) GetProp(key string) (any, bool) {
	val, ok := e.Props[key]
	return val, ok
}

// NodeFilter selects nodes by exact label and/or attribute-subset match.
// Zero-value fields are unconstrained.
type NodeFilter struct {
	Label string
	Props map[string]any
}

// EdgeFilter selects edges by exact label, endpoints and/or attribute-subset
// match. Zero-value fields are unconstrained.
type EdgeFilter struct {
	Label string
	From  string
	To    string
	Props map[string]any
}
