package analysis

import (
	"errors"
	"testing"
)

func chainIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func bufferChain(t *testing.T) *Graph {
	t.Helper()
	g := New()
	err := g.AddAll(
		Node{ID: "a0", Type: TypeSource, Params: Params{"query": "SELECT * FROM foo"}},
		Node{ID: "a1", Type: "buffer", Source: "a0", Params: Params{"radio": 300, "distance": "meters"}},
		Node{ID: "a2", Type: "buffer", Source: "a1", Params: Params{"radio": 600, "distance": "meters"}},
		Node{ID: "b0", Type: TypeSource, Params: Params{"query": "SELECT * FROM bar"}},
		Node{ID: "b1", Type: "buffer", Source: "b0"},
	)
	if err != nil {
		t.Fatalf("AddAll() error: %v", err)
	}
	return g
}

func TestAdd(t *testing.T) {
	g := New()

	if err := g.Add(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}
	if err := g.Add(Node{ID: "a0", Type: TypeSource}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := g.Add(Node{ID: "a0", Type: "buffer"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: got %v, want ErrDuplicateNodeID", err)
	}
	if err := g.Add(Node{ID: "a1", Source: "a1"}); !errors.Is(err, ErrSelfSource) {
		t.Errorf("self source: got %v, want ErrSelfSource", err)
	}

	n, ok := g.Node("a0")
	if !ok {
		t.Fatal("a0 not found")
	}
	if n.Type != TypeSource {
		t.Errorf("duplicate Add overwrote node: type = %q", n.Type)
	}
	if n.Params == nil {
		t.Error("Params should be initialized")
	}
}

func TestNodeLookupMissing(t *testing.T) {
	g := New()
	if n, ok := g.Node("x1"); ok || n != nil {
		t.Errorf("Node(x1) = %v, %v; want nil, false", n, ok)
	}
}

func TestChain(t *testing.T) {
	g := bufferChain(t)

	tests := []struct {
		id   string
		want []string
	}{
		{"a2", []string{"a2", "a1", "a0"}},
		{"a0", []string{"a0"}},
		{"b1", []string{"b1", "b0"}},
		{"zz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := chainIDs(g.Chain(tt.id))
			if !equalIDs(got, tt.want) {
				t.Errorf("Chain(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	if got := g.ChainLength("a2"); got != 3 {
		t.Errorf("ChainLength(a2) = %d, want 3", got)
	}
	if got := chainIDs(g.Ancestors("a2")); !equalIDs(got, []string{"a1", "a0"}) {
		t.Errorf("Ancestors(a2) = %v", got)
	}
}

func TestChainStopsAtDanglingSource(t *testing.T) {
	g := New()
	_ = g.Add(Node{ID: "c1", Type: "buffer", Source: "c0"})

	if got := chainIDs(g.Chain("c1")); !equalIDs(got, []string{"c1"}) {
		t.Errorf("Chain(c1) = %v, want [c1]", got)
	}
	if err := g.Validate(); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Validate() = %v, want ErrUnknownSource", err)
	}
}

func TestChainTerminatesOnCycle(t *testing.T) {
	g := New()
	_ = g.Add(Node{ID: "a1", Type: "buffer", Source: "a2"})
	_ = g.Add(Node{ID: "a2", Type: "buffer", Source: "a1"})

	if got := g.ChainLength("a1"); got != 2 {
		t.Errorf("ChainLength(a1) = %d, want 2", got)
	}
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}
}

func TestValidate(t *testing.T) {
	if err := bufferChain(t).Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	g := New()
	_ = g.Add(Node{ID: "a1", Type: "buffer"})
	if err := g.Validate(); !errors.Is(err, ErrMissingSource) {
		t.Errorf("Validate() = %v, want ErrMissingSource", err)
	}
}

func TestRemove(t *testing.T) {
	g := bufferChain(t)

	if !g.Remove("a1") {
		t.Fatal("Remove(a1) = false")
	}
	if g.Remove("a1") {
		t.Error("second Remove(a1) should report false")
	}
	if g.Has("a1") {
		t.Error("a1 still present")
	}
	if deps := g.Dependents("a0"); len(deps) != 0 {
		t.Errorf("Dependents(a0) = %v, want none", deps)
	}
	if got := chainIDs(g.Chain("a2")); !equalIDs(got, []string{"a2"}) {
		t.Errorf("Chain(a2) after removal = %v", got)
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := bufferChain(t)
	want := []string{"a0", "a1", "a2", "b0", "b1"}
	if got := chainIDs(g.Nodes()); !equalIDs(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
	if got := chainIDs(g.Roots()); !equalIDs(got, []string{"a0", "b0"}) {
		t.Errorf("Roots() = %v", got)
	}
}

func TestNextNodeID(t *testing.T) {
	g := bufferChain(t)

	tests := []struct {
		letter string
		want   string
	}{
		{"a", "a3"},
		{"b", "b2"},
		{"c", "c0"},
	}
	for _, tt := range tests {
		if got := g.NextNodeID(tt.letter); got != tt.want {
			t.Errorf("NextNodeID(%s) = %s, want %s", tt.letter, got, tt.want)
		}
	}
}

func TestNodesWithLetter(t *testing.T) {
	g := bufferChain(t)
	if got := chainIDs(g.NodesWithLetter("b")); !equalIDs(got, []string{"b0", "b1"}) {
		t.Errorf("NodesWithLetter(b) = %v", got)
	}
}
