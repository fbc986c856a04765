// Normalized GFA text export (spec §4.9). Distinct-haplotype deduplication
// hashes each candidate walk's handle sequence with
// github.com/cespare/xxhash/v2 (pack source: i5heu-ouroboros-db /
// haivivi-giztoy, SPEC_FULL.md Domain Stack).
package subgraph

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/mobinasri/gbwtgraph/pkg/gbwtgraph"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
)

// HaplotypeMode selects which paths a GFA export includes (spec §4.5,
// "Three haplotype-output modes").
type HaplotypeMode int

const (
	AllHaplotypes HaplotypeMode = iota
	DistinctHaplotypes
	ReferenceOnly
)

// canonicalEdge picks a deterministic representative of an edge and its
// bidirected mirror, so each underlying link is emitted exactly once (spec
// §4.9, "L-lines... all overlaps printed as *").
func canonicalEdge(e graph.Edge) graph.Edge {
	m := e.Reverse()
	if edgeLess(m, e) {
		return m
	}
	return e
}

func edgeLess(a, b graph.Edge) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	return a.To < b.To
}

// walkOfPathInSubgraph returns the subsequence of path p's handles whose
// node id lies in the subgraph, preserving order.
func walkOfPathInSubgraph(g *gbwtgraph.Graph, p pathindex.PathHandle, nodes map[graph.NodeID]bool) []graph.Handle {
	full := g.ScanPath(p)
	var out []graph.Handle
	for _, h := range full {
		if nodes[h.ID()] {
			out = append(out, h)
		}
	}
	return out
}

func hashWalk(walk []graph.Handle) uint64 {
	buf := make([]byte, 8*len(walk))
	for i, h := range walk {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(h))
	}
	return xxhash.Sum64(buf)
}

func selectPaths(sg *Subgraph, mode HaplotypeMode) []pathindex.PathHandle {
	var selected []pathindex.PathHandle
	seenHashes := map[uint64]bool{}

	sg.Graph.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) {
		if mode == ReferenceOnly && !md.IsReference() {
			return
		}
		walk := walkOfPathInSubgraph(sg.Graph, p, sg.Nodes)
		if len(walk) == 0 {
			return
		}
		if mode == DistinctHaplotypes {
			h := hashWalk(walk)
			if seenHashes[h] {
				return
			}
			seenHashes[h] = true
		}
		selected = append(selected, p)
	})
	return selected
}

// ExportGFA renders sg as normalized text, ordered per spec §4.9: S-lines
// ascending by node id, then L-lines in canonical-edge order, then P-lines
// for reference paths, then W-lines for the rest (or, if the underlying
// path index carries no metadata at all, every selected path as a P-line).
func ExportGFA(sg *Subgraph, mode HaplotypeMode) string {
	g := sg.Graph
	var buf bytes.Buffer

	for _, id := range sg.NodeIDs() {
		fmt.Fprintf(&buf, "S\t%d\t%s\n", id, g.GetSequence(g.GetHandle(id, false)))
	}

	edgeSet := map[graph.Edge]bool{}
	for id := range sg.Nodes {
		for _, rev := range [2]bool{false, true} {
			h := g.GetHandle(id, rev)
			g.FollowEdges(h, false, func(next graph.Handle) bool {
				if !sg.Nodes[next.ID()] {
					return true
				}
				edgeSet[canonicalEdge(graph.Edge{From: h, To: next})] = true
				return true
			})
		}
	}
	edges := make([]graph.Edge, 0, len(edgeSet))
	for e := range edgeSet {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edgeLess(edges[i], edges[j]) })
	for _, e := range edges {
		fmt.Fprintf(&buf, "L\t%d\t%s\t%d\t%s\t*\n",
			e.From.ID(), orientChar(e.From.IsReverse()), e.To.ID(), orientChar(e.To.IsReverse()))
	}

	selected := selectPaths(sg, mode)
	noMetadata := !g.Index.HasMetadata()

	var refs, rest []pathindex.PathHandle
	for _, p := range selected {
		if noMetadata || g.Index.Metadata(p).IsReference() {
			refs = append(refs, p)
		} else {
			rest = append(rest, p)
		}
	}

	for _, p := range refs {
		writePathLine(&buf, g, p, sg.Nodes)
	}
	if !noMetadata {
		for _, p := range rest {
			writeWalkLine(&buf, g, p, sg.Nodes)
		}
	}

	return buf.String()
}

func orientChar(reverse bool) string {
	if reverse {
		return "-"
	}
	return "+"
}

func writePathLine(buf *bytes.Buffer, g *gbwtgraph.Graph, p pathindex.PathHandle, nodes map[graph.NodeID]bool) {
	md := g.Index.Metadata(p)
	walk := walkOfPathInSubgraph(g, p, nodes)
	fmt.Fprintf(buf, "P\t%s\t%s\t*\n", md.Contig, joinSteps(walk))
}

func writeWalkLine(buf *bytes.Buffer, g *gbwtgraph.Graph, p pathindex.PathHandle, nodes map[graph.NodeID]bool) {
	md := g.Index.Metadata(p)
	walk := walkOfPathInSubgraph(g, p, nodes)
	fmt.Fprintf(buf, "W\t%s\t%d\t%s\t%d\t%d\t%s\n",
		md.Sample, md.Haplotype, md.Contig, md.SubrangeStart, md.SubrangeEnd, joinWalk(walk))
}

func joinSteps(walk []graph.Handle) string {
	var buf bytes.Buffer
	for i, h := range walk {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d%s", h.ID(), orientChar(h.IsReverse()))
	}
	return buf.String()
}

func joinWalk(walk []graph.Handle) string {
	var buf bytes.Buffer
	for _, h := range walk {
		if h.IsReverse() {
			buf.WriteByte('<')
		} else {
			buf.WriteByte('>')
		}
		fmt.Fprintf(&buf, "%d", h.ID())
	}
	return buf.String()
}
