// Package seqsource implements the sequence source (spec §3, Component A):
// an in-memory node -> sequence store built during text-format parsing,
// plus the segment-name -> node-range translation created when a long
// segment is chopped into consecutive node ids.
//
// The concatenated-buffer-with-offsets layout is grounded on
// map_router/pkg/graph/builder.go, which flattens per-edge geometry into a
// single []float64 buffer indexed by a per-edge (offset, length) pair
// (GeoFirstOut/GeoShapeLat/GeoShapeLon) rather than one slice per edge.
package seqsource

import (
	"fmt"

	"github.com/mobinasri/gbwtgraph/pkg/graph"
)

type span struct {
	offset uint64
	length uint64
}

// TranslationRange is a half-open node id range [Start, End) that a segment
// was chopped into.
type TranslationRange struct {
	Start, End graph.NodeID
}

// Len returns the number of nodes the segment was chopped into.
func (r TranslationRange) Len() int { return int(r.End - r.Start) }

// Source is the sequence source: nodes -> byte spans into a single
// concatenated buffer, plus the segment name -> node range translation.
type Source struct {
	sequences  []byte
	nodes      map[graph.NodeID]span
	translation map[string]TranslationRange
	nextID     graph.NodeID
	minID      graph.NodeID
	maxID      graph.NodeID
	hasAny     bool
}

// New creates an empty Source. nextID seeds the allocator used for segment
// names that are not themselves positive integers (spec §4.6 pass 1).
func New() *Source {
	return &Source{
		nodes:       make(map[graph.NodeID]span),
		translation: make(map[string]TranslationRange),
		nextID:      1,
	}
}

// AddNode records the sequence for a node id. It is an error to add the same
// id twice.
func (s *Source) AddNode(id graph.NodeID, sequence []byte) error {
	if _, exists := s.nodes[id]; exists {
		return fmt.Errorf("seqsource: duplicate node id %d", id)
	}
	off := uint64(len(s.sequences))
	s.sequences = append(s.sequences, sequence...)
	s.nodes[id] = span{offset: off, length: uint64(len(sequence))}
	if !s.hasAny || id < s.minID {
		s.minID = id
	}
	if !s.hasAny || id > s.maxID {
		s.maxID = id
	}
	s.hasAny = true
	if id >= s.nextID {
		s.nextID = id + 1
	}
	return nil
}

// AddTranslation records that segment name was chopped into the half-open
// node range [start, end). The range must be non-empty and every id in it
// must already have been added via AddNode.
func (s *Source) AddTranslation(name string, start, end graph.NodeID) error {
	if end <= start {
		return fmt.Errorf("seqsource: empty translation range for segment %q", name)
	}
	for id := start; id < end; id++ {
		if _, ok := s.nodes[id]; !ok {
			return fmt.Errorf("seqsource: translation range for segment %q references unknown node %d", name, id)
		}
	}
	s.translation[name] = TranslationRange{Start: start, End: end}
	return nil
}

// AllocateID returns the next id from the monotonically increasing
// allocator without consuming it; callers must still AddNode(id, ...).
func (s *Source) AllocateID() graph.NodeID { return s.nextID }

// HasNode reports whether id has a recorded sequence.
func (s *Source) HasNode(id graph.NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// GetSequence returns the raw (forward-strand) sequence bytes for id.
func (s *Source) GetSequence(id graph.NodeID) []byte {
	sp, ok := s.nodes[id]
	if !ok {
		return nil
	}
	return s.sequences[sp.offset : sp.offset+sp.length]
}

// GetLength returns the sequence length in bp for id.
func (s *Source) GetLength(id graph.NodeID) int {
	return int(s.nodes[id].length)
}

// Translate returns the node range a segment was chopped into, and whether
// the segment is known (a segment with a single unchopped node is still
// recorded, per spec §3's invariant that it is "either absent... or maps to
// a non-empty contiguous range").
func (s *Source) Translate(name string) (TranslationRange, bool) {
	r, ok := s.translation[name]
	return r, ok
}

// MinNodeID and MaxNodeID bound the set of node ids present.
func (s *Source) MinNodeID() graph.NodeID { return s.minID }
func (s *Source) MaxNodeID() graph.NodeID { return s.maxID }

// NodeCount returns the number of distinct node ids present.
func (s *Source) NodeCount() int { return len(s.nodes) }

// ForEachNode calls visit for every node id in unspecified order.
func (s *Source) ForEachNode(visit func(id graph.NodeID)) {
	for id := range s.nodes {
		visit(id)
	}
}

// ForEachTranslation calls visit for every recorded segment translation, in
// unspecified order.
func (s *Source) ForEachTranslation(visit func(name string, r TranslationRange)) {
	for name, r := range s.translation {
		visit(name, r)
	}
}

// Clone returns a deep copy of the source, used by the container's copy
// constructor (spec §3, "Copies perform deep duplication").
func (s *Source) Clone() *Source {
	out := &Source{
		sequences:   append([]byte(nil), s.sequences...),
		nodes:       make(map[graph.NodeID]span, len(s.nodes)),
		translation: make(map[string]TranslationRange, len(s.translation)),
		nextID:      s.nextID,
		minID:       s.minID,
		maxID:       s.maxID,
		hasAny:      s.hasAny,
	}
	for id, sp := range s.nodes {
		out.nodes[id] = sp
	}
	for name, r := range s.translation {
		out.translation[name] = r
	}
	return out
}
