// Package jobs implements construction-job assignment (spec §3, §4.6 pass
// 3-4, Component E): grouping weakly connected components into a bounded
// number of parallel construction jobs, and routing each path to the job
// owning its first node's component.
//
// Grounded on map_router/pkg/graph/component.go's LargestComponent (which
// already reduces a graph to node-index sets via union-find) generalized
// from "keep the single largest component" to "bin every component into a
// capacity-bounded job", matching original_source/src/algorithms.cpp's
// gbwt_construction_jobs.
package jobs

import (
	"strconv"

	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
)

// ConstructionJobs holds the component -> job assignment used to partition
// construction work (spec §3).
type ConstructionJobs struct {
	Components      [][]graph.NodeID   // ordered by smallest node id
	NodeToComponent map[graph.NodeID]int
	ComponentToJob  []int
	NodesPerJob     []int
}

// Assign computes weakly connected components of g and bins them into jobs:
// a component is added to the last job whose cumulative node count plus this
// component would stay <= sizeBound; otherwise a new job starts.
// approximateNumJobs <= 0 is normalized to 1 (spec §4.6 pass 3, §5).
func Assign(g graph.HandleGraph, approximateNumJobs int) *ConstructionJobs {
	if approximateNumJobs <= 0 {
		approximateNumJobs = 1
	}

	components := graph.WeaklyConnectedComponents(g)

	numNodes := 0
	for _, c := range components {
		numNodes += len(c)
	}
	sizeBound := numNodes / approximateNumJobs
	if sizeBound < 1 {
		sizeBound = 1
	}

	jobs := &ConstructionJobs{
		Components:      components,
		NodeToComponent: make(map[graph.NodeID]int, numNodes),
		ComponentToJob:  make([]int, len(components)),
	}

	for i, component := range components {
		if len(jobs.NodesPerJob) == 0 || jobs.NodesPerJob[len(jobs.NodesPerJob)-1]+len(component) > sizeBound {
			jobs.NodesPerJob = append(jobs.NodesPerJob, 0)
		}
		last := len(jobs.NodesPerJob) - 1
		jobs.NodesPerJob[last] += len(component)
		for _, id := range component {
			jobs.NodeToComponent[id] = i
		}
		jobs.ComponentToJob[i] = last
	}

	return jobs
}

// JobCount returns the number of jobs.
func (j *ConstructionJobs) JobCount() int { return len(j.NodesPerJob) }

// ComponentCount returns the number of weakly connected components.
func (j *ConstructionJobs) ComponentCount() int { return len(j.Components) }

// JobForNode returns the job index owning id's component, or -1 if id was
// never assigned to a component.
func (j *ConstructionJobs) JobForNode(id graph.NodeID) int {
	c, ok := j.NodeToComponent[id]
	if !ok {
		return -1
	}
	return j.ComponentToJob[c]
}

// ComponentsPerJob groups component indices by owning job, the inverse of
// ComponentToJob (spec §3.NEW, grounded on the C++ original's
// components_per_job).
func (j *ConstructionJobs) ComponentsPerJob() [][]int {
	result := make([][]int, j.JobCount())
	for c, job := range j.ComponentToJob {
		result[job] = append(result[job], c)
	}
	return result
}

// PathEnumerator is the minimal read surface ContigNames needs from a node
// graph.
type PathEnumerator interface {
	ForEachPath(visit func(p pathindex.PathHandle, md pathindex.Metadata))
	ScanPath(p pathindex.PathHandle) []graph.Handle
}

// ContigNames derives one human-readable contig name per component: the
// locus name of the first reference or generic path whose first handle's
// node lies in that component (reference paths preferred over generic;
// haplotype paths are never considered), falling back to "component_<i>"
// (spec §4.6.NEW, grounded on the C++ original's
// ConstructionJobs::contig_names, which walks PathSense::REFERENCE then
// PathSense::GENERIC and skips PathSense::HAPLOTYPE entirely).
func ContigNames(j *ConstructionJobs, paths PathEnumerator) []string {
	names := make([]string, j.ComponentCount())

	tryAssign := func(sense pathindex.Sense) {
		paths.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) {
			if md.Sense != sense {
				return
			}
			seq := paths.ScanPath(p)
			if len(seq) == 0 {
				return
			}
			component, ok := j.NodeToComponent[seq[0].ID()]
			if !ok || component >= len(names) || names[component] != "" {
				return
			}
			if md.Contig != "" {
				names[component] = md.Contig
			}
		})
	}
	tryAssign(pathindex.SenseReference)
	tryAssign(pathindex.SenseGeneric)

	for i, name := range names {
		if name == "" {
			names[i] = componentFallbackName(i)
		}
	}
	return names
}

func componentFallbackName(i int) string {
	return "component_" + strconv.Itoa(i)
}
