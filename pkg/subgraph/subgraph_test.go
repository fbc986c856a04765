package subgraph

import (
	"strings"
	"testing"

	"github.com/mobinasri/gbwtgraph/pkg/gbwtgraph"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/seqsource"
)

// buildLinearGraph builds a 5-node chain 1-2-3-4-5, each node 4bp, carrying
// one reference path spanning all five nodes.
func buildLinearGraph(t *testing.T) *gbwtgraph.Graph {
	t.Helper()
	seq := seqsource.New()
	for _, id := range []graph.NodeID{1, 2, 3, 4, 5} {
		seq.AddNode(id, []byte("ACGT"))
	}
	idx := pathindex.New()
	walk := []graph.Handle{
		graph.NewHandle(1, false),
		graph.NewHandle(2, false),
		graph.NewHandle(3, false),
		graph.NewHandle(4, false),
		graph.NewHandle(5, false),
	}
	idx.Insert(walk, pathindex.Metadata{Sample: pathindex.ReferencePathSampleName, Contig: "chr1"})
	return gbwtgraph.New(seq, idx)
}

func TestNodeQueryZeroContextReturnsOnlyTheNode(t *testing.T) {
	g := buildLinearGraph(t)
	sg, err := NodeQuery(g, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sg.Nodes) != 1 || !sg.Nodes[3] {
		t.Fatalf("Nodes = %v, want {3}", sg.Nodes)
	}
}

func TestNodeQueryExpandsBothDirections(t *testing.T) {
	g := buildLinearGraph(t)
	sg, err := NodeQuery(g, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []graph.NodeID{2, 3, 4} {
		if !sg.Nodes[id] {
			t.Errorf("expected node %d in the neighborhood, got %v", id, sg.NodeIDs())
		}
	}
	if sg.Nodes[1] || sg.Nodes[5] {
		t.Errorf("nodes 1 and 5 are 8bp away, should be excluded at context=4: %v", sg.NodeIDs())
	}
}

// TestNodeQueryWholeNodeGranularity mirrors the 50bp/30bp numbers of the
// documented node-query scenario: a context smaller than a neighbor's own
// length must still pull in the whole neighbor, since inclusion is decided
// at node granularity, not by how much of the neighbor's length fits.
func TestNodeQueryWholeNodeGranularity(t *testing.T) {
	seq := seqsource.New()
	seq.AddNode(1, bytes50())
	seq.AddNode(2, bytes50())
	seq.AddNode(3, bytes50())
	idx := pathindex.New()
	idx.Insert([]graph.Handle{
		graph.NewHandle(1, false),
		graph.NewHandle(2, false),
		graph.NewHandle(3, false),
	}, pathindex.Metadata{Sample: pathindex.ReferencePathSampleName, Contig: "p1"})
	g := gbwtgraph.New(seq, idx)

	sg, err := NodeQuery(g, 2, 30)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []graph.NodeID{1, 2, 3} {
		if !sg.Nodes[id] {
			t.Errorf("expected node %d within a 30bp context of adjacent 50bp node 2, got %v", id, sg.NodeIDs())
		}
	}
}

func bytes50() []byte {
	out := make([]byte, 50)
	for i := range out {
		out[i] = "ACGT"[i%4]
	}
	return out
}

func TestNodeQueryUnknownNode(t *testing.T) {
	g := buildLinearGraph(t)
	if _, err := NodeQuery(g, 99, 10); err == nil {
		t.Fatal("expected error for an unknown node")
	}
}

func TestBuildPathPositionsAndLocate(t *testing.T) {
	g := buildLinearGraph(t)
	var path pathindex.PathHandle
	g.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) { path = p })

	pp := BuildPathPositions(g, path, 4)
	if pp.TotalLength() != 20 {
		t.Fatalf("TotalLength = %d, want 20", pp.TotalLength())
	}

	step, start, ok := pp.Locate(g, 9)
	if !ok || step != 2 || start != 8 {
		t.Fatalf("Locate(9) = (%d, %d, %v), want (2, 8, true)", step, start, ok)
	}

	if _, _, ok := pp.Locate(g, 20); ok {
		t.Error("Locate at total length should be out of range")
	}
}

func TestPathOffsetQuery(t *testing.T) {
	g := buildLinearGraph(t)
	var path pathindex.PathHandle
	g.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) { path = p })
	pp := BuildPathPositions(g, path, 4)

	sg, err := PathOffsetQuery(g, pp, 9, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sg.Nodes) != 1 || !sg.Nodes[3] {
		t.Fatalf("Nodes = %v, want {3} (offset 9 falls in node 3's 4bp span)", sg.Nodes)
	}
}

func TestPathIntervalQuery(t *testing.T) {
	g := buildLinearGraph(t)
	var path pathindex.PathHandle
	g.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) { path = p })
	pp := BuildPathPositions(g, path, 4)

	sg, err := PathIntervalQuery(g, pp, 0, 12, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []graph.NodeID{1, 2, 3} {
		if !sg.Nodes[id] {
			t.Errorf("expected node %d in the interval, got %v", id, sg.NodeIDs())
		}
	}
}

// TestPathIntervalQueryHalfOpenBound mirrors the documented interval-query
// scenario: path A+ B+ C+ with 50bp nodes (offsets A=[0,50), B=[50,100),
// C=[100,150)), interval 40..110. Since the interval is half-open, the step
// covering offset 110 (C) must be excluded even though 110-1=109 also falls
// within C — only A and B should appear.
func TestPathIntervalQueryHalfOpenBound(t *testing.T) {
	seq := seqsource.New()
	seq.AddNode(1, bytes50())
	seq.AddNode(2, bytes50())
	seq.AddNode(3, bytes50())
	idx := pathindex.New()
	idx.Insert([]graph.Handle{
		graph.NewHandle(1, false),
		graph.NewHandle(2, false),
		graph.NewHandle(3, false),
	}, pathindex.Metadata{Sample: pathindex.ReferencePathSampleName, Contig: "p1"})
	g := gbwtgraph.New(seq, idx)

	var path pathindex.PathHandle
	g.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) { path = p })
	pp := BuildPathPositions(g, path, 50)

	sg, err := PathIntervalQuery(g, pp, 40, 110, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []graph.NodeID{1, 2} {
		if !sg.Nodes[id] {
			t.Errorf("expected node %d in interval 40..110, got %v", id, sg.NodeIDs())
		}
	}
	if sg.Nodes[3] {
		t.Errorf("node 3 starts at offset 100 and should be excluded by the half-open bound at 110, got %v", sg.NodeIDs())
	}
}

func TestPathIntervalQueryRejectsEmptyInterval(t *testing.T) {
	g := buildLinearGraph(t)
	var path pathindex.PathHandle
	g.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) { path = p })
	pp := BuildPathPositions(g, path, 4)

	if _, err := PathIntervalQuery(g, pp, 5, 5, 0); err == nil {
		t.Fatal("expected error for an empty interval")
	}
}

func TestExportGFAOrdering(t *testing.T) {
	g := buildLinearGraph(t)
	sg, err := NodeQuery(g, 1, 8)
	if err != nil {
		t.Fatal(err)
	}
	gfa := ExportGFA(sg, AllHaplotypes)

	sIdx := strings.Index(gfa, "S\t1\t")
	lIdx := strings.Index(gfa, "L\t")
	pIdx := strings.Index(gfa, "P\t")
	if sIdx == -1 || lIdx == -1 || pIdx == -1 {
		t.Fatalf("expected S, L, and P lines in export, got:\n%s", gfa)
	}
	if !(sIdx < lIdx && lIdx < pIdx) {
		t.Errorf("expected S-lines before L-lines before P-lines, got:\n%s", gfa)
	}
}

func TestExportGFANoMetadataFallsBackToPLines(t *testing.T) {
	seq := seqsource.New()
	seq.AddNode(1, []byte("ACGT"))
	seq.AddNode(2, []byte("GGCC"))
	idx := pathindex.New()
	idx.Insert([]graph.Handle{graph.NewHandle(1, false), graph.NewHandle(2, false)}, pathindex.Metadata{})
	g := gbwtgraph.New(seq, idx)

	sg, err := NodeQuery(g, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	gfa := ExportGFA(sg, AllHaplotypes)
	if strings.Contains(gfa, "W\t") {
		t.Errorf("expected no W-lines when the index carries no metadata, got:\n%s", gfa)
	}
	if !strings.Contains(gfa, "P\t") {
		t.Errorf("expected every path as a P-line when the index carries no metadata, got:\n%s", gfa)
	}
}

func TestExportGFADistinctHaplotypesDedup(t *testing.T) {
	seq := seqsource.New()
	seq.AddNode(1, []byte("ACGT"))
	seq.AddNode(2, []byte("GGCC"))
	idx := pathindex.New()
	walk := []graph.Handle{graph.NewHandle(1, false), graph.NewHandle(2, false)}
	idx.Insert(walk, pathindex.Metadata{Sample: "s1", Haplotype: 1, Contig: "chr1"})
	idx.Insert(walk, pathindex.Metadata{Sample: "s2", Haplotype: 1, Contig: "chr1"})
	g := gbwtgraph.New(seq, idx)

	sg, err := NodeQuery(g, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	gfa := ExportGFA(sg, DistinctHaplotypes)
	if strings.Count(gfa, "W\t") != 1 {
		t.Errorf("expected exactly one W-line for two identical walks under DistinctHaplotypes, got:\n%s", gfa)
	}
}
