// Path position index (spec §4.5, "Positions on paths are resolved via a
// path position index that samples (bp_offset, path_index_position) pairs
// every sample_interval base pairs; searching for an offset does binary
// search over samples then walks forward"). Grounded on
// map_router/pkg/routing/snap.go's sort.Search-over-sorted-keys pattern.
package subgraph

import (
	"sort"

	"github.com/mobinasri/gbwtgraph/pkg/gbwtgraph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
)

type sample struct {
	offset uint64
	step   int
}

// PathPositions is the sampled offset index for one path.
type PathPositions struct {
	path        pathindex.PathHandle
	samples     []sample
	totalLength uint64
}

// BuildPathPositions samples path's cumulative basepair offsets every
// sampleInterval bp.
func BuildPathPositions(g *gbwtgraph.Graph, p pathindex.PathHandle, sampleInterval int) *PathPositions {
	if sampleInterval <= 0 {
		sampleInterval = 1
	}
	handles := g.ScanPath(p)
	pp := &PathPositions{path: p, samples: []sample{{offset: 0, step: 0}}}

	var offset uint64
	lastSampled := uint64(0)
	for i, h := range handles {
		if i > 0 && offset-lastSampled >= uint64(sampleInterval) {
			pp.samples = append(pp.samples, sample{offset: offset, step: i})
			lastSampled = offset
		}
		offset += uint64(g.GetLength(h))
	}
	pp.totalLength = offset
	return pp
}

// Locate returns the index into g.ScanPath(pp.path) of the step covering
// bpOffset, and that step's own starting offset. ok is false if bpOffset is
// out of range.
func (pp *PathPositions) Locate(g *gbwtgraph.Graph, bpOffset uint64) (step int, stepStart uint64, ok bool) {
	if bpOffset >= pp.totalLength {
		return 0, 0, false
	}
	lo := sort.Search(len(pp.samples), func(i int) bool { return pp.samples[i].offset > bpOffset }) - 1
	if lo < 0 {
		lo = 0
	}

	handles := g.ScanPath(pp.path)
	offset := pp.samples[lo].offset
	for i := pp.samples[lo].step; i < len(handles); i++ {
		length := uint64(g.GetLength(handles[i]))
		if bpOffset < offset+length {
			return i, offset, true
		}
		offset += length
	}
	return 0, 0, false
}

// TotalLength returns the path's total basepair length.
func (pp *PathPositions) TotalLength() uint64 { return pp.totalLength }
