// Package pathindex implements the path index (spec GLOSSARY: "a succinct
// self-index over a collection of sequences of handles"). spec.md §1 puts
// the path index's *inner* encoding out of scope, delegated to a
// pre-existing succinct BWT library (gbwt). This package is the concrete
// collaborator every other package talks to through that contract: it
// implements the required operations (insert, extract, enumerate,
// metadata lookup) directly over Go slices rather than a compressed BWT,
// and uses github.com/vmihailenco/msgpack/v5 as the wire format for its own
// opaque serialized blob — the stand-in for the succinct library's binary
// format referenced in spec §4.8.
package pathindex

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mobinasri/gbwtgraph/pkg/graph"
)

// Sense classifies a path's provenance (spec §3).
type Sense int

const (
	SenseGeneric Sense = iota
	SenseReference
	SenseHaplotype
)

// ReferencePathSampleName is the sentinel sample name identifying reference
// paths (spec §3, §9 "Global state"). It is an immutable process-wide
// constant, never mutated.
const ReferencePathSampleName = "_gbwt_ref"

// SourceValue is the fixed value gbz always writes to the "source" tag
// after load (spec §3, §9).
const SourceValue = "jltsiren/gbwtgraph"

// Endmarker is the sentinel value conceptually terminating every encoded
// path sequence. It is never stored explicitly (sequences are Go slices with
// a well-defined end), but is exposed for callers that need to recognize it
// while scanning a raw encoded stream (e.g. a hand-rolled LF-walk).
const Endmarker uint64 = 0

// PathHandle identifies one inserted path (index into Metadata).
type PathHandle int

// Metadata describes one path's provenance (spec §3).
type Metadata struct {
	Sense           Sense
	Sample          string
	Contig          string
	Haplotype       uint32
	Fragment        uint32
	HasSubrangeFlag bool
	SubrangeStart   uint64
	SubrangeEnd     uint64
}

// IsReference reports whether the path's sample name is the reference
// sentinel (spec §3, "Reference paths").
func (m Metadata) IsReference() bool { return m.Sample == ReferencePathSampleName }

// Index is the in-memory path index: for every inserted path, both
// orientations are stored as separate sequences (forward at 2*i, reverse at
// 2*i+1), matching gbwt's convention and spec §4.6 pass 5 ("inserting each
// path in both orientations").
type Index struct {
	sequences [][]uint64
	metadata  []Metadata
}

// New creates an empty Index.
func New() *Index { return &Index{} }

// Insert appends a path (given as forward-orientation handles) with its
// metadata, storing both orientations. Returns the new path's handle.
func (idx *Index) Insert(path []graph.Handle, md Metadata) PathHandle {
	if len(path) == 0 {
		panic("pathindex: cannot insert an empty path")
	}
	fwd := make([]uint64, len(path))
	for i, h := range path {
		fwd[i] = uint64(h)
	}
	rev := make([]uint64, len(path))
	for i, h := range path {
		rev[len(path)-1-i] = uint64(h.Flip())
	}
	idx.sequences = append(idx.sequences, fwd, rev)
	idx.metadata = append(idx.metadata, md)
	return PathHandle(len(idx.metadata) - 1)
}

// PathCount returns the number of distinct inserted paths.
func (idx *Index) PathCount() int { return len(idx.metadata) }

// SequenceCount returns the total number of stored (oriented) sequences,
// i.e. 2*PathCount().
func (idx *Index) SequenceCount() int { return len(idx.sequences) }

// ForwardSequenceID and ReverseSequenceID map a path handle to the sequence
// id storing its forward or reverse traversal.
func (idx *Index) ForwardSequenceID(p PathHandle) int { return int(p) * 2 }
func (idx *Index) ReverseSequenceID(p PathHandle) int { return int(p)*2 + 1 }

// PathOfSequence maps a sequence id back to its owning path handle.
func (idx *Index) PathOfSequence(seqID int) PathHandle { return PathHandle(seqID / 2) }

// IsReverseSequence reports whether seqID stores the reverse orientation.
func (idx *Index) IsReverseSequence(seqID int) bool { return seqID%2 == 1 }

// Extract returns the handle sequence stored at sequence id seqID.
func (idx *Index) Extract(seqID int) []graph.Handle {
	raw := idx.sequences[seqID]
	out := make([]graph.Handle, len(raw))
	for i, v := range raw {
		out[i] = graph.Handle(v)
	}
	return out
}

// Metadata returns the metadata for path handle p.
func (idx *Index) Metadata(p PathHandle) Metadata { return idx.metadata[p] }

// FindPaths returns every path handle whose sample and contig match.
func (idx *Index) FindPaths(sample, contig string) []PathHandle {
	var out []PathHandle
	for i, md := range idx.metadata {
		if md.Sample == sample && md.Contig == contig {
			out = append(out, PathHandle(i))
		}
	}
	return out
}

// ForEachPath calls visit for every path handle in insertion order.
func (idx *Index) ForEachPath(visit func(p PathHandle, md Metadata)) {
	for i, md := range idx.metadata {
		visit(PathHandle(i), md)
	}
}

// HasMetadata reports whether any path carries metadata at all, i.e. a
// Metadata other than the zero value — when it does not, every path is
// emitted as a P-line on export (spec §4.9).
func (idx *Index) HasMetadata() bool {
	for _, md := range idx.metadata {
		if md != (Metadata{}) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the index, used by the container's copy
// constructor before rebinding the node graph's back-reference (spec §3,
// "Copies perform deep duplication and rebind").
func (idx *Index) Clone() *Index {
	out := &Index{
		sequences: make([][]uint64, len(idx.sequences)),
		metadata:  append([]Metadata(nil), idx.metadata...),
	}
	for i, seq := range idx.sequences {
		out.sequences[i] = append([]uint64(nil), seq...)
	}
	return out
}

// Merge concatenates partial indexes built by separate construction jobs,
// preserving path order: job j's paths precede job j+1's (spec §5,
// "Ordering guarantees"). This stands in for the succinct library's
// fast-merge primitive referenced in spec §4.6 pass 5.
func Merge(partials []*Index) *Index {
	out := New()
	for _, p := range partials {
		if p == nil {
			continue
		}
		out.sequences = append(out.sequences, p.sequences...)
		out.metadata = append(out.metadata, p.metadata...)
	}
	return out
}

// wireFormat is the msgpack-serialized shape of an Index: the concrete
// stand-in for the succinct library's own binary encoding (spec §4.8).
type wireFormat struct {
	Sequences [][]uint64
	Metadata  []Metadata
}

// MarshalBinary encodes the index as an opaque msgpack blob.
func (idx *Index) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(wireFormat{Sequences: idx.sequences, Metadata: idx.metadata})
}

// UnmarshalBinary decodes an index previously produced by MarshalBinary.
func (idx *Index) UnmarshalBinary(data []byte) error {
	var w wireFormat
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("pathindex: decode: %w", err)
	}
	idx.sequences = w.Sequences
	idx.metadata = w.Metadata
	return nil
}

// SimpleSDSSize returns the size of the index in "elements" (here, stored
// uint64s across all sequences) without serializing, mirroring
// gbwt::GBWT::simple_sds_size used by GBZ.SimpleSDSSize (spec §4.8).
func (idx *Index) SimpleSDSSize() uint64 {
	var n uint64
	for _, seq := range idx.sequences {
		n += uint64(len(seq))
	}
	return n
}

// equalUint64Slices reports whether the two encoded sequences are identical,
// used by Equal.
func equalUint64Slices(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal reports deep equality of sequence contents and metadata, used by
// round-trip tests (spec §8 invariant 3).
func (idx *Index) Equal(other *Index) bool {
	if idx.SequenceCount() != other.SequenceCount() || idx.PathCount() != other.PathCount() {
		return false
	}
	for i := range idx.sequences {
		if !equalUint64Slices(idx.sequences[i], other.sequences[i]) {
			return false
		}
	}
	for i := range idx.metadata {
		if idx.metadata[i] != other.metadata[i] {
			return false
		}
	}
	return true
}
