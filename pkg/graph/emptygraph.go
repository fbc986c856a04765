package graph

import (
	"fmt"
	"sort"
)

// HandleGraph is the minimal read interface every bidirected graph in this
// module exposes: EmptyGraph (topology-only, used during construction) and
// gbwtgraph.Graph (sequence-carrying) both implement it, so the algorithms in
// component.go and topology.go work against either.
type HandleGraph interface {
	HasNode(id NodeID) bool
	GetHandle(id NodeID, reverse bool) Handle
	MinNodeID() NodeID
	MaxNodeID() NodeID
	// FollowEdges calls visit for every handle reachable by leaving handle in
	// the given direction (goLeft selects the "predecessor" side). Following
	// left from a reversed handle is equivalent to following right from its
	// flip, per the bidirected rule (spec §4.7).
	FollowEdges(h Handle, goLeft bool, visit func(next Handle) bool)
	ForEachHandle(visit func(h Handle) bool)
	GetDegree(h Handle, goLeft bool) int
}

// emptyGraphNode holds the adjacency lists of one node of an EmptyGraph.
// Both lists hold handles reachable by following the node's successor or
// predecessor side in forward orientation; storing both directions
// physically is acceptable here (unlike the persistent GBZ format) because
// it simplifies construction (spec §9 "Bidirected edges").
type emptyGraphNode struct {
	predecessors []Handle
	successors   []Handle
}

// EmptyGraph is the topology-only bidirected graph built during the
// component and link passes of construction (spec §3, "Empty graph").
// Grounded on the teacher's map_router/pkg/graph/graph.go CSR Graph for the
// overall "adjacency owned by the graph" shape, adapted to the bidirected,
// map-of-slices representation the C++ original (internal.cpp EmptyGraph)
// uses during construction before it is compacted into CSR form.
type EmptyGraph struct {
	nodes  map[NodeID]*emptyGraphNode
	minID  NodeID
	maxID  NodeID
	hasAny bool
}

// NewEmptyGraph creates an empty EmptyGraph.
func NewEmptyGraph() *EmptyGraph {
	return &EmptyGraph{nodes: make(map[NodeID]*emptyGraphNode)}
}

// CreateNode registers a node with no edges. Calling it twice for the same
// id is a no-op that does not clear existing edges.
func (g *EmptyGraph) CreateNode(id NodeID) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &emptyGraphNode{}
	if !g.hasAny || id < g.minID {
		g.minID = id
	}
	if !g.hasAny || id > g.maxID {
		g.maxID = id
	}
	g.hasAny = true
}

// CreateEdge adds the edge from -> to and its symmetric reverse
// flip(to) -> flip(from). Both endpoints must already exist as nodes.
func (g *EmptyGraph) CreateEdge(from, to Handle) error {
	fromNode, ok := g.nodes[from.ID()]
	if !ok {
		return fmt.Errorf("graph: cannot create edge, node %d not present", from.ID())
	}
	toNode, ok := g.nodes[to.ID()]
	if !ok {
		return fmt.Errorf("graph: cannot create edge, node %d not present", to.ID())
	}

	if from.IsReverse() {
		fromNode.predecessors = append(fromNode.predecessors, to.Flip())
	} else {
		fromNode.successors = append(fromNode.successors, to)
	}

	if to.IsReverse() {
		toNode.successors = append(toNode.successors, from.Flip())
	} else {
		toNode.predecessors = append(toNode.predecessors, from)
	}
	return nil
}

// RemoveDuplicateEdges deduplicates each node's adjacency lists by sorting
// and compacting, matching the C++ gbwt::removeDuplicates(..., false) call
// in EmptyGraph::remove_duplicate_edges: the final set is deduplicated
// without otherwise reordering surviving elements' lexicographic relation
// (spec §5, "Edge order... duplicates are removed by sort + unique").
func (g *EmptyGraph) RemoveDuplicateEdges() {
	for _, n := range g.nodes {
		n.predecessors = dedupeHandles(n.predecessors)
		n.successors = dedupeHandles(n.successors)
	}
}

func dedupeHandles(hs []Handle) []Handle {
	if len(hs) < 2 {
		return hs
	}
	sorted := append([]Handle(nil), hs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:1]
	for _, h := range sorted[1:] {
		if h != out[len(out)-1] {
			out = append(out, h)
		}
	}
	return out
}

// HasNode reports whether id is present in the graph.
func (g *EmptyGraph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// GetHandle returns the handle for (id, reverse).
func (g *EmptyGraph) GetHandle(id NodeID, reverse bool) Handle {
	return NewHandle(id, reverse)
}

// MinNodeID returns the smallest node id present, or 0 if empty.
func (g *EmptyGraph) MinNodeID() NodeID { return g.minID }

// MaxNodeID returns the largest node id present, or 0 if empty.
func (g *EmptyGraph) MaxNodeID() NodeID { return g.maxID }

// GetDegree returns the number of edges on the given side of the handle.
func (g *EmptyGraph) GetDegree(h Handle, goLeft bool) int {
	n, ok := g.nodes[h.ID()]
	if !ok {
		return 0
	}
	flip := h.IsReverse()
	if goLeft != flip {
		return len(n.predecessors)
	}
	return len(n.successors)
}

// FollowEdges visits every handle reachable from h on the given side,
// honoring the bidirected rule: following left from a reversed handle is
// following right from its flip, and vice versa (spec §4.7).
func (g *EmptyGraph) FollowEdges(h Handle, goLeft bool, visit func(next Handle) bool) {
	n, ok := g.nodes[h.ID()]
	if !ok {
		return
	}
	flip := h.IsReverse()
	edges := n.successors
	if goLeft != flip {
		edges = n.predecessors
	}
	for _, next := range edges {
		actual := next
		if flip {
			actual = next.Flip()
		}
		if !visit(actual) {
			return
		}
	}
}

// ForEachHandle visits the forward handle of every node exactly once, in
// map iteration order (construction never depends on this order; only the
// final CSR/GFA emission order is guaranteed deterministic).
func (g *EmptyGraph) ForEachHandle(visit func(h Handle) bool) {
	for id := range g.nodes {
		if !visit(g.GetHandle(id, false)) {
			return
		}
	}
}

// NodeCount returns the number of nodes in the graph.
func (g *EmptyGraph) NodeCount() int { return len(g.nodes) }
