// Package gbwtgraph implements the node graph (spec §4.7, "GBWTGraph"): a
// bidirected handle graph backed by a sequence source and a path index. Its
// topology is compiled once from every inserted path's consecutive handle
// pairs, the same way the real GBWT-backed graph's topology is implicit in
// its BWT: every distinct edge is one that some inserted path traversed.
//
// Grounded on map_router/pkg/graph/builder.go for the "compact adjacency
// built once from a flat edge list" shape (there: CSR arrays built by
// counting + prefix sum; here: sorted, deduplicated adjacency lists), and on
// map_router/pkg/routing/engine.go's Router/Engine split for keeping the
// backing collaborators (sequence source, path index) as fields rather than
// copying data into the graph.
package gbwtgraph

import (
	"sort"

	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/seqsource"
)

// Graph is the bidirected, sequence-carrying node graph. It holds a
// non-owning reference to the path index; per spec §9 ("Cyclic
// back-reference"), any copy of the containing GBZ container must call
// Rebind after duplicating the index so this reference stays valid.
type Graph struct {
	Sequences *seqsource.Source
	Index     *pathindex.Index

	adjOut map[graph.Handle][]graph.Handle
	adjIn  map[graph.Handle][]graph.Handle
	cache  *pathindex.Cache
}

// pathCacheThreshold is the minimum stored sequence length, in handles, a
// path must have to be memoized by the graph's extraction cache. Short
// paths are cheap enough to re-extract that caching them just wastes
// memory (spec §3.NEW, mirroring the C++ original's LargeRecordCache
// threshold semantics).
const pathCacheThreshold = 8

// New builds a node graph from a sequence source and a fully merged path
// index, compiling topology from every inserted sequence's consecutive
// handle pairs.
func New(sequences *seqsource.Source, index *pathindex.Index) *Graph {
	g := &Graph{
		Sequences: sequences,
		Index:     index,
		adjOut:    make(map[graph.Handle][]graph.Handle),
		adjIn:     make(map[graph.Handle][]graph.Handle),
		cache:     pathindex.NewCache(index, pathCacheThreshold),
	}
	g.compileTopology()
	return g
}

// Rebind must be called after the containing GBZ is copied or moved, since
// Index is a non-owning reference into the sibling path index (spec §9). The
// extraction cache is rebuilt empty against the new index, since a cache
// keyed by sequence id must never serve entries from a different index.
func (g *Graph) Rebind(index *pathindex.Index) {
	g.Index = index
	g.cache = pathindex.NewCache(index, pathCacheThreshold)
}

// Clone returns a deep copy of the graph's own topology bound to
// newSequences, still pointing at the original (soon to be stale) Index; the
// caller must call Rebind on the result once the sibling index is cloned
// too (spec §3, "Copies perform deep duplication and rebind").
func (g *Graph) Clone(newSequences *seqsource.Source) *Graph {
	return &Graph{
		Sequences: newSequences,
		Index:     g.Index,
		adjOut:    cloneAdjacency(g.adjOut),
		adjIn:     cloneAdjacency(g.adjIn),
		cache:     pathindex.NewCache(g.Index, pathCacheThreshold),
	}
}

func cloneAdjacency(m map[graph.Handle][]graph.Handle) map[graph.Handle][]graph.Handle {
	out := make(map[graph.Handle][]graph.Handle, len(m))
	for h, edges := range m {
		out[h] = append([]graph.Handle(nil), edges...)
	}
	return out
}

func (g *Graph) compileTopology() {
	// Every path is stored in both orientations (pathindex.Index.Insert), so
	// scanning only forward sequences already covers every edge in both
	// directions once the bidirected reverse is synthesized below.
	for p := 0; p < g.Index.PathCount(); p++ {
		seq := g.cache.ExtractHandles(g.Index.ForwardSequenceID(pathindex.PathHandle(p)))
		for i := 0; i+1 < len(seq); i++ {
			g.addEdge(seq[i], seq[i+1])
		}
	}
	for h := range g.adjOut {
		g.adjOut[h] = dedupe(g.adjOut[h])
	}
	for h := range g.adjIn {
		g.adjIn[h] = dedupe(g.adjIn[h])
	}
}

// addEdge records from->to and its bidirected reverse flip(to)->flip(from)
// (spec §3, "Edge").
func (g *Graph) addEdge(from, to graph.Handle) {
	g.adjOut[from] = append(g.adjOut[from], to)
	g.adjIn[to] = append(g.adjIn[to], from)

	rf, rt := to.Flip(), from.Flip()
	g.adjOut[rf] = append(g.adjOut[rf], rt)
	g.adjIn[rt] = append(g.adjIn[rt], rf)
}

func dedupe(hs []graph.Handle) []graph.Handle {
	if len(hs) < 2 {
		return hs
	}
	sorted := append([]graph.Handle(nil), hs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:1]
	for _, h := range sorted[1:] {
		if h != out[len(out)-1] {
			out = append(out, h)
		}
	}
	return out
}

// HasNode reports whether id has a sequence in the graph.
func (g *Graph) HasNode(id graph.NodeID) bool { return g.Sequences.HasNode(id) }

// GetHandle returns the handle for (id, reverse).
func (g *Graph) GetHandle(id graph.NodeID, reverse bool) graph.Handle {
	return graph.NewHandle(id, reverse)
}

// MinNodeID and MaxNodeID delegate to the sequence source.
func (g *Graph) MinNodeID() graph.NodeID { return g.Sequences.MinNodeID() }
func (g *Graph) MaxNodeID() graph.NodeID { return g.Sequences.MaxNodeID() }

// GetSequence returns h's sequence, reverse-complemented on the fly when h
// is reversed (spec §4.7).
func (g *Graph) GetSequence(h graph.Handle) []byte {
	seq := g.Sequences.GetSequence(h.ID())
	if !h.IsReverse() {
		return seq
	}
	return ReverseComplement(seq)
}

// GetLength returns the sequence length of h in bp.
func (g *Graph) GetLength(h graph.Handle) int { return g.Sequences.GetLength(h.ID()) }

// GetDegree returns the number of edges on the given side of h.
func (g *Graph) GetDegree(h graph.Handle, goLeft bool) int {
	if goLeft {
		return len(g.adjIn[h])
	}
	return len(g.adjOut[h])
}

// FollowEdges visits every handle reachable from h on the given side,
// honoring the bidirected rule (spec §4.7).
func (g *Graph) FollowEdges(h graph.Handle, goLeft bool, visit func(next graph.Handle) bool) {
	edges := g.adjOut[h]
	if goLeft {
		edges = g.adjIn[h]
	}
	for _, next := range edges {
		if !visit(next) {
			return
		}
	}
}

// ForEachHandle visits the forward handle of every node exactly once.
func (g *Graph) ForEachHandle(visit func(h graph.Handle) bool) {
	g.Sequences.ForEachNode(func(id graph.NodeID) {
		visit(g.GetHandle(id, false))
	})
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return g.Sequences.NodeCount() }

// ScanPath returns the forward-orientation handle sequence of the path,
// served from the graph's extraction cache when the path is long enough to
// benefit from memoization.
func (g *Graph) ScanPath(p pathindex.PathHandle) []graph.Handle {
	return g.cache.ExtractHandles(g.Index.ForwardSequenceID(p))
}

// ForEachPath visits every path handle and its metadata in insertion order.
func (g *Graph) ForEachPath(visit func(p pathindex.PathHandle, md pathindex.Metadata)) {
	g.Index.ForEachPath(visit)
}

// PathCount returns the number of distinct paths in the graph.
func (g *Graph) PathCount() int { return g.Index.PathCount() }

// PathToSequenceID and SequenceIDToPath translate between a path handle and
// its forward-orientation path-index sequence id (spec §4.7).
func (g *Graph) PathToSequenceID(p pathindex.PathHandle) int {
	return g.Index.ForwardSequenceID(p)
}
func (g *Graph) SequenceIDToPath(seqID int) pathindex.PathHandle {
	return g.Index.PathOfSequence(seqID)
}

var complement = [256]byte{}

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	pairs := map[byte]byte{
		'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'N': 'N',
		'a': 't', 'c': 'g', 'g': 'c', 't': 'a', 'n': 'n',
	}
	for a, b := range pairs {
		complement[a] = b
	}
}

// ReverseComplement returns the reverse complement of an IUPAC nucleotide
// sequence over the alphabet documented in spec §6 (case-insensitive
// [ACGTN...]); bytes outside that alphabet pass through unchanged, matching
// the C++ original's table-driven complement (spec invariant 8).
func ReverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	n := len(seq)
	for i, b := range seq {
		out[n-1-i] = complement[b]
	}
	return out
}
