package graph

import (
	"errors"
	"testing"
)

// TestCreateNode_GeneratedID tests that an empty id gets a generated one
func TestCreateNode_GeneratedID(t *testing.T) {
	s := NewStore()

	node, err := s.CreateNode("", "Person", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if node.ID == "" {
		t.Error("expected a generated ID, got empty string")
	}
	if node.Label != "Person" {
		t.Errorf("Label = %q, want %q", node.Label, "Person")
	}
}

// TestCreateNode_DuplicateID tests that a caller-supplied duplicate fails
func TestCreateNode_DuplicateID(t *testing.T) {
	s := NewStore()

	if _, err := s.CreateNode("n1", "A", nil); err != nil {
		t.Fatalf("first CreateNode failed: %v", err)
	}
	_, err := s.CreateNode("n1", "B", nil)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

// TestCreateNode_EmptyLabel tests that nodes require a label
func TestCreateNode_EmptyLabel(t *testing.T) {
	s := NewStore()

	if _, err := s.CreateNode("n1", "", nil); err == nil {
		t.Error("expected error for empty label")
	}
}

func TestGetNode_NotFound(t *testing.T) {
	s := NewStore()

	_, err := s.GetNode("missing")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

// TestUpdateNode_Merge tests that updates merge into existing properties
func TestUpdateNode_Merge(t *testing.T) {
	s := NewStore()

	if _, err := s.CreateNode("n1", "Person", map[string]any{"name": "ada", "age": 36}); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if err := s.UpdateNode("n1", map[string]any{"age": 37, "city": "london"}); err != nil {
		t.Fatalf("UpdateNode failed: %v", err)
	}

	node, err := s.GetNode("n1")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if node.Props["name"] != "ada" {
		t.Errorf("name = %v, want ada (unmentioned keys must be preserved)", node.Props["name"])
	}
	if node.Props["age"] != float64(37) {
		t.Errorf("age = %v, want 37", node.Props["age"])
	}
	if node.Props["city"] != "london" {
		t.Errorf("city = %v, want london", node.Props["city"])
	}
}

func TestUpdateNode_NotFound(t *testing.T) {
	s := NewStore()

	err := s.UpdateNode("missing", map[string]any{"k": "v"})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

// TestDeleteNode_Cascade tests that deleting a node removes every incident
// edge, incoming or outgoing
func TestDeleteNode_Cascade(t *testing.T) {
	s := NewStore()

	mustCreateNode(t, s, "x", "A")
	mustCreateNode(t, s, "y", "A")
	mustCreateNode(t, s, "z", "A")
	mustCreateEdge(t, s, "e1", "R", "x", "y")
	mustCreateEdge(t, s, "e2", "R", "z", "x")
	mustCreateEdge(t, s, "e3", "R", "y", "z")

	if err := s.DeleteNode("x"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}

	if got := s.FindEdges(EdgeFilter{From: "x"}); len(got) != 0 {
		t.Errorf("FindEdges(from:x) = %v, want empty", got)
	}
	if got := s.FindEdges(EdgeFilter{To: "x"}); len(got) != 0 {
		t.Errorf("FindEdges(to:x) = %v, want empty", got)
	}
	// The unrelated edge survives
	if !s.HasEdge("e3") {
		t.Error("edge e3 should not have been cascaded")
	}
	if s.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", s.EdgeCount())
	}
}

func TestDeleteNode_NotFound(t *testing.T) {
	s := NewStore()

	err := s.DeleteNode("missing")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

// TestCreateEdge_DanglingAllowed tests the deferred referential-integrity
// policy: endpoints need not exist at creation time
func TestCreateEdge_DanglingAllowed(t *testing.T) {
	s := NewStore()

	edge, err := s.CreateEdge("e1", "R", "ghost-from", "ghost-to", nil)
	if err != nil {
		t.Fatalf("CreateEdge with absent endpoints must succeed, got: %v", err)
	}
	if edge.From != "ghost-from" || edge.To != "ghost-to" {
		t.Errorf("endpoints = (%q, %q), want (ghost-from, ghost-to)", edge.From, edge.To)
	}
}

func TestCreateEdge_DuplicateID(t *testing.T) {
	s := NewStore()

	mustCreateEdge(t, s, "e1", "R", "a", "b")
	_, err := s.CreateEdge("e1", "R", "a", "b", nil)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestUpdateEdge_MergeAndNotFound(t *testing.T) {
	s := NewStore()

	mustCreateEdge(t, s, "e1", "R", "a", "b")
	if err := s.UpdateEdge("e1", map[string]any{"weight": 2}); err != nil {
		t.Fatalf("UpdateEdge failed: %v", err)
	}
	edge, _ := s.GetEdge("e1")
	if edge.Props["weight"] != float64(2) {
		t.Errorf("weight = %v, want 2", edge.Props["weight"])
	}

	if err := s.UpdateEdge("missing", nil); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("expected ErrEdgeNotFound, got %v", err)
	}
}

func TestDeleteEdge(t *testing.T) {
	s := NewStore()

	mustCreateNode(t, s, "a", "A")
	mustCreateNode(t, s, "b", "A")
	mustCreateEdge(t, s, "e1", "R", "a", "b")

	if err := s.DeleteEdge("e1"); err != nil {
		t.Fatalf("DeleteEdge failed: %v", err)
	}
	if s.HasEdge("e1") {
		t.Error("edge e1 still present after delete")
	}
	// Nodes are untouched
	if !s.HasNode("a") || !s.HasNode("b") {
		t.Error("DeleteEdge must not remove nodes")
	}

	if err := s.DeleteEdge("e1"); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("expected ErrEdgeNotFound on second delete, got %v", err)
	}
}

// TestCloneIsolation tests that returned values never alias store state
func TestCloneIsolation(t *testing.T) {
	s := NewStore()

	mustCreateNode(t, s, "n1", "A")
	node, _ := s.GetNode("n1")
	node.Props["injected"] = "value"

	fresh, _ := s.GetNode("n1")
	if _, ok := fresh.Props["injected"]; ok {
		t.Error("mutating a returned node leaked into the store")
	}
}

func TestNormalizeProps_RejectsUnsupported(t *testing.T) {
	s := NewStore()

	_, err := s.CreateNode("n1", "A", map[string]any{"ch": make(chan int)})
	if !errors.Is(err, ErrInvalidProperty) {
		t.Errorf("expected ErrInvalidProperty, got %v", err)
	}
}

func TestNormalizeProps_NestedValues(t *testing.T) {
	s := NewStore()

	props := map[string]any{
		"tags": []any{"x", "y"},
		"meta": map[string]any{"depth": 2, "inner": []any{true, nil}},
	}
	if _, err := s.CreateNode("n1", "A", props); err != nil {
		t.Fatalf("CreateNode with nested props failed: %v", err)
	}

	node, _ := s.GetNode("n1")
	meta, ok := node.Props["meta"].(map[string]any)
	if !ok {
		t.Fatalf("meta is %T, want map", node.Props["meta"])
	}
	if meta["depth"] != float64(2) {
		t.Errorf("meta.depth = %v, want normalized float64(2)", meta["depth"])
	}
}

// Helpers

func mustCreateNode(t *testing.T, s *Store, id, label string) *Node {
	t.Helper()
	node, err := s.CreateNode(id, label, nil)
	if err != nil {
		t.Fatalf("CreateNode(%s) failed: %v", id, err)
	}
	return node
}

func mustCreateEdge(t *testing.T, s *Store, id, label, from, to string) *Edge {
	t.Helper()
	edge, err := s.CreateEdge(id, label, from, to, nil)
	if err != nil {
		t.Fatalf("CreateEdge(%s) failed: %v", id, err)
	}
	return edge
}
