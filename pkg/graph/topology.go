package graph

// notSeen marks a node not yet visited during IsNiceAndAcyclic, mirroring
// the C++ original's NOT_SEEN sentinel (algorithms.cpp).
const notSeen = ^uint64(0)

type nodeState struct {
	remainingIndegree uint64
	orientation       bool
	seen              bool
}

// IsNiceAndAcyclic decides whether the subgraph induced by component is a
// DAG that is orientation-consistent: every node is reachable in exactly one
// orientation. Returns the forward-orientation head nodes (indegree 0) if
// so, or nil if the component is not orientation-consistent or not
// acyclic. A component node absent from the graph is silently excluded from
// both the head-node search and the final count (spec §4.3).
func IsNiceAndAcyclic(g HandleGraph, component []NodeID) []NodeID {
	if len(component) == 0 {
		return nil
	}

	states := make(map[NodeID]*nodeState, len(component))
	var heads []NodeID
	var active []Handle
	missing := 0
	found := 0

	for _, id := range component {
		if !g.HasNode(id) {
			missing++
			continue
		}
		h := g.GetHandle(id, false)
		indegree := uint64(g.GetDegree(h, true))
		if indegree == 0 {
			states[id] = &nodeState{remainingIndegree: 0, orientation: false, seen: true}
			heads = append(heads, id)
			active = append(active, h)
			found++
		} else {
			states[id] = &nodeState{remainingIndegree: notSeen}
		}
	}

	ok := true
outer:
	for len(active) > 0 {
		curr := active[len(active)-1]
		active = active[:len(active)-1]

		g.FollowEdges(curr, false, func(next Handle) bool {
			nextID := next.ID()
			nextOrientation := next.IsReverse()
			st, exists := states[nextID]
			if !exists {
				// next is outside the component: ignore for the DAG check
				// (mirrors the C++ original operating only on nodes it put
				// into its `nodes` map for this component).
				return true
			}
			if st.remainingIndegree == notSeen {
				st.remainingIndegree = uint64(g.GetDegree(next, true))
				st.orientation = nextOrientation
				st.seen = true
			} else if nextOrientation != st.orientation {
				ok = false
				return false
			}
			st.remainingIndegree--
			if st.remainingIndegree == 0 {
				active = append(active, next)
				found++
			}
			return true
		})
		if !ok {
			break outer
		}
	}

	if found != len(component)-missing {
		ok = false
	}
	if !ok {
		return nil
	}
	return heads
}

// TopologicalOrder produces a topological order of both orientations of
// every present node in subgraph, restricted to edges within the subgraph,
// via Kahn's algorithm seeded with zero-indegree handles. Returns nil if the
// restriction is not a DAG (result length would not equal
// 2*present(subgraph)) (spec §4.4).
func TopologicalOrder(g HandleGraph, subgraph []NodeID) []Handle {
	if len(subgraph) == 0 {
		return nil
	}

	indegree := make(map[Handle]int, 2*len(subgraph))
	missing := 0
	for _, id := range subgraph {
		if !g.HasNode(id) {
			missing++
			continue
		}
		indegree[g.GetHandle(id, false)] = 0
		indegree[g.GetHandle(id, true)] = 0
	}

	// Map iteration order is unspecified and varies from call to call, even
	// within the same process; the algorithm's correctness does not depend
	// on it, since any topological order consistent with the edges satisfies
	// spec invariant 6. We collect the handle set into a slice only so the
	// rest of the function can index and re-scan it.
	handles := make([]Handle, 0, len(indegree))
	for h := range indegree {
		handles = append(handles, h)
	}

	for _, h := range handles {
		count := 0
		g.FollowEdges(h, true, func(next Handle) bool {
			if _, ok := indegree[next]; ok {
				count++
			}
			return true
		})
		indegree[h] = count
	}

	var active []Handle
	result := make([]Handle, 0, 2*(len(subgraph)-missing))
	for _, h := range handles {
		if indegree[h] == 0 {
			active = append(active, h)
			result = append(result, h)
		}
	}

	for len(active) > 0 {
		curr := active[len(active)-1]
		active = active[:len(active)-1]
		g.FollowEdges(curr, false, func(next Handle) bool {
			if _, ok := indegree[next]; !ok {
				return true
			}
			indegree[next]--
			if indegree[next] == 0 {
				active = append(active, next)
				result = append(result, next)
			}
			return true
		})
	}

	if len(result) != 2*(len(subgraph)-missing) {
		return nil
	}
	return result
}
