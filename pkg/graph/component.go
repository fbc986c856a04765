package graph

// UnionFind implements a disjoint-set data structure over a contiguous id
// range [offset, offset+n), using path splitting on Find and union by rank
// on Union. Grounded directly on map_router/pkg/graph/component.go's
// UnionFind (which uses path halving); the offset/slot mapping and the
// path-splitting variant follow the C++ original's DisjointSets
// (original_source/src/algorithms.cpp).
type UnionFind struct {
	offset NodeID
	parent []uint32
	rank   []uint8
}

// NewUnionFind creates a UnionFind over ids [offset, offset+n).
func NewUnionFind(offset NodeID, n uint32) *UnionFind {
	parent := make([]uint32, n)
	for i := range parent {
		parent[i] = uint32(i)
	}
	return &UnionFind{offset: offset, parent: parent, rank: make([]uint8, n)}
}

func (uf *UnionFind) slot(id NodeID) uint32 { return uint32(id - uf.offset) }

// Find returns the representative slot of the set containing id, applying
// path splitting: each step rewrites parent to grandparent.
func (uf *UnionFind) Find(id NodeID) uint32 {
	return uf.findSlot(uf.slot(id))
}

// findSlot is Find but operating directly on a slot index (used by Sets,
// which has already computed slots for the whole range).
func (uf *UnionFind) findSlot(x uint32) uint32 {
	for uf.parent[x] != x {
		next := uf.parent[x]
		uf.parent[x] = uf.parent[next]
		x = next
	}
	return x
}

// Union merges the sets containing a and b, breaking rank ties by
// incrementing the surviving root's rank. Returns false if already unioned.
func (uf *UnionFind) Union(a, b NodeID) bool {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return false
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	return true
}

// Sets walks every id in [offset, offset+n), skipping ids for which include
// is false, and returns one slice per distinct root, ordered by the order in
// which each root was first encountered.
func (uf *UnionFind) Sets(include func(id NodeID) bool) [][]NodeID {
	var result [][]NodeID
	rootToIndex := make(map[uint32]int)
	n := uint32(len(uf.parent))
	for i := uint32(0); i < n; i++ {
		id := uf.offset + NodeID(i)
		if !include(id) {
			continue
		}
		root := uf.findSlot(i)
		idx, ok := rootToIndex[root]
		if !ok {
			idx = len(result)
			rootToIndex[root] = idx
			result = append(result, nil)
		}
		result[idx] = append(result[idx], id)
	}
	return result
}

// WeaklyConnectedComponents computes the weakly connected components of a
// bidirected handle graph: nodes are unioned by following edges in both
// directions from every graph-enumerated node, then grouped via UnionFind's
// Sets, restricted to nodes with HasNode == true. Components are ordered by
// their smallest node id, matching the C++ original's use of for_each_handle
// plus DisjointSets::sets (spec §4.2).
func WeaklyConnectedComponents(g HandleGraph) [][]NodeID {
	minID, maxID := g.MinNodeID(), g.MaxNodeID()
	if maxID < minID {
		return nil
	}
	n := uint32(maxID - minID + 1)
	seen := make([]bool, n)
	uf := NewUnionFind(minID, n)

	g.ForEachHandle(func(start Handle) bool {
		startSlot := uint32(start.ID() - minID)
		if seen[startSlot] {
			return true
		}
		stack := []Handle{start}
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			slot := uint32(h.ID() - minID)
			if seen[slot] {
				continue
			}
			seen[slot] = true
			visit := func(next Handle) bool {
				uf.Union(h.ID(), next.ID())
				stack = append(stack, next)
				return true
			}
			g.FollowEdges(h, false, visit)
			g.FollowEdges(h, true, visit)
		}
		return true
	})

	return uf.Sets(func(id NodeID) bool { return g.HasNode(id) })
}
