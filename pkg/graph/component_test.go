package graph

import "testing"

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(10, 5) // ids 10..14

	for _, id := range []NodeID{10, 11, 12, 13, 14} {
		if uf.Find(id) != uint32(id-10) {
			t.Errorf("Find(%d) = %d, want %d", id, uf.Find(id), id-10)
		}
	}

	uf.Union(10, 11)
	if uf.Find(10) != uf.Find(11) {
		t.Error("10 and 11 should be in the same set")
	}
	uf.Union(12, 13)
	if uf.Find(10) == uf.Find(12) {
		t.Error("10 and 12 should be in different sets")
	}
	uf.Union(11, 13)
	if uf.Find(10) != uf.Find(13) {
		t.Error("10 and 13 should now be in the same set")
	}
}

func TestWeaklyConnectedComponentsTwoChains(t *testing.T) {
	g := NewEmptyGraph()
	for _, id := range []NodeID{1, 2, 3, 10, 11} {
		g.CreateNode(id)
	}
	g.CreateEdge(NewHandle(1, false), NewHandle(2, false))
	g.CreateEdge(NewHandle(2, false), NewHandle(3, false))
	g.CreateEdge(NewHandle(10, false), NewHandle(11, false))

	components := WeaklyConnectedComponents(g)
	if len(components) != 2 {
		t.Fatalf("got %d components, want 2", len(components))
	}
	if len(components[0]) != 3 || len(components[1]) != 2 {
		t.Fatalf("component sizes = %d, %d; want 3, 2", len(components[0]), len(components[1]))
	}
	// Components are ordered by smallest node id.
	if components[0][0] != 1 || components[1][0] != 10 {
		t.Errorf("components not ordered by smallest id: %v", components)
	}
}

func TestWeaklyConnectedComponentsIsolatedNode(t *testing.T) {
	g := NewEmptyGraph()
	g.CreateNode(5)
	components := WeaklyConnectedComponents(g)
	if len(components) != 1 || len(components[0]) != 1 || components[0][0] != 5 {
		t.Fatalf("got %v, want a single component [5]", components)
	}
}
