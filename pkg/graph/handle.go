// Package graph provides the bidirected handle-graph primitives shared by
// every other package: node identifiers, handles, and the topology-only
// EmptyGraph used as an intermediate structure during construction.
package graph

import "fmt"

// NodeID is a positive graph node identifier. Ids need not be contiguous.
type NodeID uint64

// Handle is an opaque encoding of (node id, orientation). It is bijective
// with (NodeID, bool) pairs: Flip reverses orientation, id(h) == id(flip(h)).
//
// The low bit carries orientation (1 = reverse) and the remaining bits carry
// the node id, mirroring the node/handle packing the teacher's CSR graph used
// for compact edge storage (map_router/pkg/graph/graph.go).
type Handle uint64

// NewHandle encodes a node id and orientation into a Handle.
func NewHandle(id NodeID, reverse bool) Handle {
	if id == 0 {
		panic("graph: node id 0 is reserved")
	}
	h := Handle(id) << 1
	if reverse {
		h |= 1
	}
	return h
}

// ID returns the node id encoded in the handle.
func (h Handle) ID() NodeID { return NodeID(h >> 1) }

// IsReverse reports whether the handle is the reverse orientation.
func (h Handle) IsReverse() bool { return h&1 != 0 }

// Flip returns the handle with orientation reversed. id(h) == id(Flip(h)).
func (h Handle) Flip() Handle { return h ^ 1 }

func (h Handle) String() string {
	orient := "+"
	if h.IsReverse() {
		orient = "-"
	}
	return fmt.Sprintf("%d%s", h.ID(), orient)
}

// Edge is an ordered pair of handles: a traversal of From may be followed by
// a traversal of To. The bidirected invariant requires that whenever (a, b)
// is present, (Flip(b), Flip(a)) is also present.
type Edge struct {
	From, To Handle
}

// Reverse returns the bidirected reverse of the edge: (flip(to), flip(from)).
func (e Edge) Reverse() Edge {
	return Edge{From: e.To.Flip(), To: e.From.Flip()}
}
