// Package gfa implements the text-format parser and builder (spec §4.6,
// Component F): a five-pass construction pipeline over a GFA-like S/L/P/W
// text file that produces a fully wired node graph.
//
// Grounded on map_router/pkg/osm/parser.go for the "stream the file
// multiple times instead of holding it all in memory" shape, and on
// original_source/src/gbwtgraph.cpp / algorithms.cpp for the pass
// boundaries and chopping semantics themselves.
package gfa

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/mobinasri/gbwtgraph/pkg/gbwtgraph"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/jobs"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/seqsource"
)

// Result is the product of Build: a fully wired node graph plus the job
// partition used to build it and one contig name per weakly connected
// component (spec §4.6.NEW).
type Result struct {
	Graph       *gbwtgraph.Graph
	Jobs        *jobs.ConstructionJobs
	ContigNames []string
}

type pendingPath struct {
	steps []step
	md    pathindex.Metadata
}

// Build runs the five-pass pipeline over the text file at path.
func Build(path string, opts BuildOptions) (*Result, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	cpn, err := opts.compilePathName()
	if err != nil {
		return nil, fmt.Errorf("gfa: invalid path name regex: %w", err)
	}

	seq := seqsource.New()
	topo := graph.NewEmptyGraph()

	// Pass 1: segments.
	if err := src.forEachLine('S', func(fields []string) error {
		name, sequence, err := parseSegmentLine(fields)
		if err != nil {
			return err
		}
		return addSegment(seq, topo, name, sequence, opts.MaxNodeLength)
	}); err != nil {
		return nil, err
	}

	// Pass 2: links.
	if err := src.forEachLine('L', func(fields []string) error {
		l, err := parseLinkLine(fields)
		if err != nil {
			return err
		}
		return addLink(seq, topo, l)
	}); err != nil {
		return nil, err
	}

	// Pass 3: components and job assignment.
	topo.RemoveDuplicateEdges()
	jobAssignment := jobs.Assign(topo, opts.ApproximateNumJobs)

	// Pass 4: path assignment. W-lines are read first so P-lines can tell
	// whether the file mixes P- and W-lines (spec §4.6 pass 4).
	var walkRecords []walkRecord
	if err := src.forEachLine('W', func(fields []string) error {
		w, err := parseWalkLine(fields)
		if err != nil {
			return err
		}
		walkRecords = append(walkRecords, w)
		return nil
	}); err != nil {
		return nil, err
	}
	fileHasWalks := len(walkRecords) > 0

	jobPaths := make([][]pendingPath, jobAssignment.JobCount())

	for _, w := range walkRecords {
		if err := assignResolved(seq, jobAssignment, jobPaths, w.steps, walkMetadata(w)); err != nil {
			return nil, err
		}
	}
	if err := src.forEachLine('P', func(fields []string) error {
		p, err := parsePathLine(fields)
		if err != nil {
			return err
		}
		md := resolvePathMetadata(p.name, fileHasWalks, cpn)
		return assignResolved(seq, jobAssignment, jobPaths, p.steps, md)
	}); err != nil {
		return nil, err
	}

	// Pass 5: parallel per-job path index construction, then merge in job
	// order (spec §5, "Ordering guarantees").
	partials := make([]*pathindex.Index, jobAssignment.JobCount())
	runJobs(len(jobPaths), opts.ParallelJobs, func(i int) {
		idx := pathindex.New()
		for _, pp := range jobPaths[i] {
			handles, err := resolveSteps(seq, pp.steps)
			if err != nil {
				// Already validated during routing; unreachable in practice.
				return
			}
			idx.Insert(handles, pp.md)
		}
		partials[i] = idx
	})

	merged := pathindex.Merge(partials)
	g := gbwtgraph.New(seq, merged)
	contigNames := jobs.ContigNames(jobAssignment, g)

	return &Result{Graph: g, Jobs: jobAssignment, ContigNames: contigNames}, nil
}

// assignResolved resolves steps to a handle sequence purely to find the job
// owning the path's first node, then stores the unresolved steps for pass 5
// (which re-resolves them; re-resolution is cheap relative to msgpack
// encoding and keeps pendingPath free of a second graph dependency).
func assignResolved(seq *seqsource.Source, ja *jobs.ConstructionJobs, jobPaths [][]pendingPath, steps []step, md pathindex.Metadata) error {
	handles, err := resolveSteps(seq, steps)
	if err != nil {
		return err
	}
	job := ja.JobForNode(handles[0].ID())
	if job < 0 {
		return fmt.Errorf("gfa: path's first node %d belongs to no component", handles[0].ID())
	}
	jobPaths[job] = append(jobPaths[job], pendingPath{steps: steps, md: md})
	return nil
}

// addSegment implements pass 1 for one S-line: chopping into pieces of at
// most maxNodeLength, id assignment (numeric names pass through, others are
// allocated), translation recording, and the implicit chain of edges
// linking consecutive chopped pieces (spec §4.6 pass 1).
func addSegment(seq *seqsource.Source, topo *graph.EmptyGraph, name string, sequence []byte, maxNodeLength int) error {
	chunkLen := len(sequence)
	if maxNodeLength > 0 && maxNodeLength < chunkLen {
		chunkLen = maxNodeLength
	}
	numChunks := (len(sequence) + chunkLen - 1) / chunkLen

	numericBase, isNumeric := parsePositiveNodeID(name)

	ids := make([]graph.NodeID, 0, numChunks)
	offset := 0
	for i := 0; i < numChunks; i++ {
		end := offset + chunkLen
		if end > len(sequence) {
			end = len(sequence)
		}
		var id graph.NodeID
		if isNumeric {
			id = numericBase + graph.NodeID(i)
		} else {
			id = seq.AllocateID()
		}
		if err := seq.AddNode(id, sequence[offset:end]); err != nil {
			return fmt.Errorf("gfa: segment %q: %w", name, err)
		}
		topo.CreateNode(id)
		ids = append(ids, id)
		offset = end
	}

	if err := seq.AddTranslation(name, ids[0], ids[len(ids)-1]+1); err != nil {
		return fmt.Errorf("gfa: segment %q: %w", name, err)
	}
	for i := 0; i+1 < len(ids); i++ {
		if err := topo.CreateEdge(graph.NewHandle(ids[i], false), graph.NewHandle(ids[i+1], false)); err != nil {
			return fmt.Errorf("gfa: segment %q chop edge: %w", name, err)
		}
	}
	return nil
}

// parsePositiveNodeID reports whether name is the canonical decimal
// representation of a positive integer, the condition under which a
// segment name is "passed through" as its node id (spec §4.6 pass 1).
func parsePositiveNodeID(name string) (graph.NodeID, bool) {
	v, err := strconv.ParseUint(name, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	if strconv.FormatUint(v, 10) != name {
		return 0, false
	}
	return graph.NodeID(v), true
}

// addLink implements pass 2 for one L-line: it resolves both endpoints to
// the boundary node of the (possibly chopped) segment that actually
// participates in the external edge (spec §4.6 pass 2).
func addLink(seq *seqsource.Source, topo *graph.EmptyGraph, l linkRecord) error {
	fromRange, ok := seq.Translate(l.fromName)
	if !ok {
		return fmt.Errorf("gfa: L-line references unknown segment %q", l.fromName)
	}
	toRange, ok := seq.Translate(l.toName)
	if !ok {
		return fmt.Errorf("gfa: L-line references unknown segment %q", l.toName)
	}
	from := exitHandle(fromRange, l.fromRev)
	to := entryHandle(toRange, l.toRev)
	if err := topo.CreateEdge(from, to); err != nil {
		return fmt.Errorf("gfa: L-line %s%v -> %s%v: %w", l.fromName, l.fromRev, l.toName, l.toRev, err)
	}
	return nil
}

// exitHandle returns the handle leaving a segment's 3' end (orientation
// '+') or 5' end (orientation '-'), i.e. the handle side an L-line's "from"
// column refers to.
func exitHandle(r seqsource.TranslationRange, reverse bool) graph.Handle {
	if !reverse {
		return graph.NewHandle(r.End-1, false)
	}
	return graph.NewHandle(r.Start, true)
}

// entryHandle returns the handle entering a segment's 5' end (orientation
// '+') or 3' end (orientation '-'), i.e. the handle side an L-line's "to"
// column refers to.
func entryHandle(r seqsource.TranslationRange, reverse bool) graph.Handle {
	if !reverse {
		return graph.NewHandle(r.Start, false)
	}
	return graph.NewHandle(r.End-1, true)
}

// resolveSteps expands a path's or walk's step list (segment name +
// orientation) into the full chopped-node handle sequence it denotes.
func resolveSteps(seq *seqsource.Source, steps []step) ([]graph.Handle, error) {
	var handles []graph.Handle
	for _, st := range steps {
		r, ok := seq.Translate(st.name)
		if !ok {
			return nil, fmt.Errorf("gfa: path step references unknown segment %q", st.name)
		}
		n := r.Len()
		if !st.reverse {
			for i := 0; i < n; i++ {
				handles = append(handles, graph.NewHandle(r.Start+graph.NodeID(i), false))
			}
		} else {
			for i := 0; i < n; i++ {
				handles = append(handles, graph.NewHandle(r.End-1-graph.NodeID(i), true))
			}
		}
	}
	if len(handles) == 0 {
		return nil, fmt.Errorf("gfa: path has no steps")
	}
	return handles, nil
}

// runJobs invokes work(i) for i in [0, n) with at most `parallel`
// concurrent invocations (<=0 means 1), grounded on the teacher's
// concurrency-limiting semaphore in its HTTP middleware.
func runJobs(n int, parallel int, work func(i int)) {
	if n == 0 {
		return
	}
	if parallel <= 0 {
		parallel = 1
	}
	if parallel > n {
		parallel = n
	}
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			work(i)
		}(i)
	}
	wg.Wait()
}
