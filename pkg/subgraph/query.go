// Subgraph queries (spec §4.5, Component I): node query, path-offset query,
// and path-interval query, each a basepair-budgeted BFS grounded on
// map_router/pkg/routing/dijkstra.go's MinHeap-driven search shape (there
// over graph edge weights; here over destination-node sequence length, per
// spec §4.5's "per-edge cost equal to the length of the destination node's
// sequence").
package subgraph

import (
	"fmt"
	"sort"

	"github.com/mobinasri/gbwtgraph/pkg/gbwtgraph"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
)

// Subgraph is the result of any of the three query shapes: the set of node
// ids reachable within the query's basepair budget.
type Subgraph struct {
	Graph *gbwtgraph.Graph
	Nodes map[graph.NodeID]bool
}

// NodeIDs returns the subgraph's node ids in ascending order (spec §4.9,
// "S-lines in ascending node id").
func (s *Subgraph) NodeIDs() []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NodeQuery returns every node reachable from id within contextBP
// basepairs, in either direction (spec §4.5, "Node query"). A neighbor is
// included as soon as any part of it falls within the budget, at whole-node
// granularity: dist[v] tracks the cumulative length of the nodes after id up
// to and including v, and v is discovered whenever the nodes strictly
// between id and v total less than contextBP.
func NodeQuery(g *gbwtgraph.Graph, id graph.NodeID, contextBP int) (*Subgraph, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("subgraph: unknown node %d", id)
	}

	dist := map[graph.NodeID]int{id: 0}
	nodes := map[graph.NodeID]bool{id: true}

	h := &minHeap{}
	h.Push(g.GetHandle(id, false), 0)
	h.Push(g.GetHandle(id, true), 0)

	for h.Len() > 0 {
		cur := h.Pop()
		if best, ok := dist[cur.handle.ID()]; ok && cur.cost > best {
			continue
		}
		if cur.cost >= contextBP {
			continue
		}
		g.FollowEdges(cur.handle, false, func(next graph.Handle) bool {
			cost := cur.cost + g.GetLength(next)
			if best, ok := dist[next.ID()]; !ok || cost < best {
				dist[next.ID()] = cost
				nodes[next.ID()] = true
				h.Push(next, cost)
			}
			return true
		})
	}

	return &Subgraph{Graph: g, Nodes: nodes}, nil
}

// PathOffsetQuery locates the handle on pp's path covering bpOffset, then
// runs a node query of contextBP around it (spec §4.5, "Path offset
// query").
func PathOffsetQuery(g *gbwtgraph.Graph, pp *PathPositions, bpOffset uint64, contextBP int) (*Subgraph, error) {
	step, _, ok := pp.Locate(g, bpOffset)
	if !ok {
		return nil, fmt.Errorf("subgraph: offset %d out of range for path", bpOffset)
	}
	handles := g.ScanPath(pp.path)
	return NodeQuery(g, handles[step].ID(), contextBP)
}

// PathIntervalQuery unions the node neighborhoods of every handle of pp's
// path in the half-open interval [bpBegin, bpEnd), each extended by
// contextBP (spec §4.5, "Path interval query"). The step covering bpEnd
// itself is excluded even when it starts before bpEnd: only the steps
// preceding it, from the one covering bpBegin on, are part of the interval.
func PathIntervalQuery(g *gbwtgraph.Graph, pp *PathPositions, bpBegin, bpEnd uint64, contextBP int) (*Subgraph, error) {
	if bpEnd <= bpBegin {
		return nil, fmt.Errorf("subgraph: empty interval [%d, %d)", bpBegin, bpEnd)
	}
	stepBegin, _, ok := pp.Locate(g, bpBegin)
	if !ok {
		return nil, fmt.Errorf("subgraph: interval start %d out of range for path", bpBegin)
	}

	handles := g.ScanPath(pp.path)
	var stepEnd int
	switch {
	case bpEnd == pp.TotalLength():
		// Locate has no step "covering" the path's end; every remaining
		// step is within the interval.
		stepEnd = len(handles)
	default:
		step, _, ok := pp.Locate(g, bpEnd)
		if !ok {
			return nil, fmt.Errorf("subgraph: interval end %d out of range for path", bpEnd)
		}
		stepEnd = step
	}

	merged := map[graph.NodeID]bool{}
	for i := stepBegin; i < stepEnd; i++ {
		sg, err := NodeQuery(g, handles[i].ID(), contextBP)
		if err != nil {
			return nil, err
		}
		for id := range sg.Nodes {
			merged[id] = true
		}
	}
	return &Subgraph{Graph: g, Nodes: merged}, nil
}
