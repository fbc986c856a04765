package jobs

import (
	"testing"

	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
)

func twoComponentGraph() *graph.EmptyGraph {
	g := graph.NewEmptyGraph()
	for _, id := range []graph.NodeID{1, 2, 3, 10, 11} {
		g.CreateNode(id)
	}
	g.CreateEdge(graph.NewHandle(1, false), graph.NewHandle(2, false))
	g.CreateEdge(graph.NewHandle(2, false), graph.NewHandle(3, false))
	g.CreateEdge(graph.NewHandle(10, false), graph.NewHandle(11, false))
	return g
}

func TestAssignSingleJob(t *testing.T) {
	ja := Assign(twoComponentGraph(), 1)
	if ja.ComponentCount() != 2 {
		t.Fatalf("ComponentCount = %d, want 2", ja.ComponentCount())
	}
	if ja.JobCount() != 1 {
		t.Fatalf("JobCount = %d, want 1 for approximateNumJobs=1", ja.JobCount())
	}
}

func TestAssignManyJobsSplitsComponents(t *testing.T) {
	ja := Assign(twoComponentGraph(), 5)
	if ja.JobCount() < 2 {
		t.Fatalf("JobCount = %d, want at least 2 when approximateNumJobs exceeds node count / component", ja.JobCount())
	}
}

func TestJobForNode(t *testing.T) {
	ja := Assign(twoComponentGraph(), 1)
	job1 := ja.JobForNode(1)
	job10 := ja.JobForNode(10)
	if job1 < 0 || job10 < 0 {
		t.Fatalf("expected valid jobs, got %d and %d", job1, job10)
	}
	if ja.JobForNode(999) != -1 {
		t.Error("expected -1 for a node never assigned to a component")
	}
}

func TestComponentsPerJobIsInverseOfComponentToJob(t *testing.T) {
	ja := Assign(twoComponentGraph(), 1)
	byJob := ja.ComponentsPerJob()
	total := 0
	for job, components := range byJob {
		for _, c := range components {
			if ja.ComponentToJob[c] != job {
				t.Errorf("component %d claims job %d but ComponentToJob says %d", c, job, ja.ComponentToJob[c])
			}
			total++
		}
	}
	if total != ja.ComponentCount() {
		t.Errorf("ComponentsPerJob covered %d components, want %d", total, ja.ComponentCount())
	}
}

type fakePaths struct {
	paths []pathindex.PathHandle
	walks map[pathindex.PathHandle][]graph.Handle
	md    map[pathindex.PathHandle]pathindex.Metadata
}

func (f *fakePaths) ForEachPath(visit func(p pathindex.PathHandle, md pathindex.Metadata)) {
	for _, p := range f.paths {
		visit(p, f.md[p])
	}
}
func (f *fakePaths) ScanPath(p pathindex.PathHandle) []graph.Handle { return f.walks[p] }

func TestContigNamesPrefersReferenceOverGeneric(t *testing.T) {
	ja := Assign(twoComponentGraph(), 1)
	firstComponent := ja.NodeToComponent[1]

	paths := &fakePaths{
		paths: []pathindex.PathHandle{0, 1},
		walks: map[pathindex.PathHandle][]graph.Handle{
			0: {graph.NewHandle(1, false)},
			1: {graph.NewHandle(1, false)},
		},
		md: map[pathindex.PathHandle]pathindex.Metadata{
			0: {Sense: pathindex.SenseGeneric, Sample: "generic", Contig: "generic-contig"},
			1: {Sense: pathindex.SenseReference, Sample: pathindex.ReferencePathSampleName, Contig: "ref-contig"},
		},
	}

	names := ContigNames(ja, paths)
	if names[firstComponent] != "ref-contig" {
		t.Errorf("names[%d] = %q, want ref-contig", firstComponent, names[firstComponent])
	}
}

func TestContigNamesSkipsHaplotypeSense(t *testing.T) {
	ja := Assign(twoComponentGraph(), 1)
	firstComponent := ja.NodeToComponent[1]

	paths := &fakePaths{
		paths: []pathindex.PathHandle{0, 1},
		walks: map[pathindex.PathHandle][]graph.Handle{
			0: {graph.NewHandle(1, false)},
			1: {graph.NewHandle(1, false)},
		},
		md: map[pathindex.PathHandle]pathindex.Metadata{
			0: {Sense: pathindex.SenseHaplotype, Sample: "s1", Haplotype: 1, Contig: "haplotype-contig"},
			1: {Sense: pathindex.SenseGeneric, Sample: "generic", Contig: "generic-contig"},
		},
	}

	names := ContigNames(ja, paths)
	if names[firstComponent] != "generic-contig" {
		t.Errorf("names[%d] = %q, want generic-contig (haplotype-sense paths must never be picked)", firstComponent, names[firstComponent])
	}
}

func TestContigNamesFallsBackToComponentIndex(t *testing.T) {
	ja := Assign(twoComponentGraph(), 1)
	names := ContigNames(ja, &fakePaths{})
	for i, name := range names {
		if name != componentFallbackName(i) {
			t.Errorf("names[%d] = %q, want fallback %q", i, name, componentFallbackName(i))
		}
	}
}
