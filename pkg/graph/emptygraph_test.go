package graph

import "testing"

// buildChain creates a graph 1 -> 2 -> 3, i.e. a bidirected edge between each
// consecutive pair in forward orientation.
func buildChain(t *testing.T) *EmptyGraph {
	t.Helper()
	g := NewEmptyGraph()
	for _, id := range []NodeID{1, 2, 3} {
		g.CreateNode(id)
	}
	if err := g.CreateEdge(NewHandle(1, false), NewHandle(2, false)); err != nil {
		t.Fatal(err)
	}
	if err := g.CreateEdge(NewHandle(2, false), NewHandle(3, false)); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCreateEdgeAddsBidirectedReverse(t *testing.T) {
	g := buildChain(t)

	var forward []Handle
	g.FollowEdges(NewHandle(1, false), false, func(next Handle) bool {
		forward = append(forward, next)
		return true
	})
	if len(forward) != 1 || forward[0] != NewHandle(2, false) {
		t.Fatalf("forward edges from 1+ = %v, want [2+]", forward)
	}

	var reverse []Handle
	g.FollowEdges(NewHandle(2, true), false, func(next Handle) bool {
		reverse = append(reverse, next)
		return true
	})
	if len(reverse) != 1 || reverse[0] != NewHandle(1, true) {
		t.Fatalf("forward edges from 2- = %v, want [1-]", reverse)
	}
}

func TestCreateEdgeMissingNode(t *testing.T) {
	g := NewEmptyGraph()
	g.CreateNode(1)
	if err := g.CreateEdge(NewHandle(1, false), NewHandle(2, false)); err == nil {
		t.Fatal("expected error for edge to nonexistent node")
	}
}

func TestRemoveDuplicateEdges(t *testing.T) {
	g := NewEmptyGraph()
	g.CreateNode(1)
	g.CreateNode(2)
	g.CreateEdge(NewHandle(1, false), NewHandle(2, false))
	g.CreateEdge(NewHandle(1, false), NewHandle(2, false))
	g.RemoveDuplicateEdges()

	if got := g.GetDegree(NewHandle(1, false), false); got != 1 {
		t.Errorf("degree after dedup = %d, want 1", got)
	}
}

func TestHasNodeAndBounds(t *testing.T) {
	g := buildChain(t)
	if !g.HasNode(1) || !g.HasNode(3) {
		t.Error("expected nodes 1 and 3 present")
	}
	if g.HasNode(99) {
		t.Error("expected node 99 absent")
	}
	if g.MinNodeID() != 1 || g.MaxNodeID() != 3 {
		t.Errorf("bounds = [%d, %d], want [1, 3]", g.MinNodeID(), g.MaxNodeID())
	}
}

func TestFollowEdgesGoLeftOnReversedHandle(t *testing.T) {
	g := buildChain(t)
	// Following left from 2- is following right from (2-).Flip() == 2+.
	var got []Handle
	g.FollowEdges(NewHandle(2, true), true, func(next Handle) bool {
		got = append(got, next)
		return true
	})
	if len(got) != 1 || got[0] != NewHandle(3, true) {
		t.Fatalf("left from 2- = %v, want [3-]", got)
	}
}
