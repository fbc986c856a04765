package gbz

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mobinasri/gbwtgraph/pkg/gbwtgraph"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/seqsource"
)

// Container is the in-memory GBZ (spec §3, "Container (GBZ)"). It owns the
// tag map and the path index; the node graph holds a non-owning
// back-reference to that same index, which Copy rebinds after duplication.
type Container struct {
	Header Header
	Tags   map[string]string
	Index  *pathindex.Index
	Graph  *gbwtgraph.Graph
	shared *sharedSegment
}

// New builds a container from a freshly parsed sequence source and merged
// path index (spec §3, "constructed from parsed sequence source + path
// index").
func New(sequences *seqsource.Source, index *pathindex.Index) *Container {
	c := &Container{
		Header: newHeader(),
		Tags:   map[string]string{},
		Index:  index,
		Graph:  gbwtgraph.New(sequences, index),
	}
	c.setSourceTag()
	return c
}

func (c *Container) setSourceTag() {
	if c.Tags == nil {
		c.Tags = map[string]string{}
	}
	c.Tags["source"] = pathindex.SourceValue
}

// Copy performs the deep duplication spec §3 requires, rebinding the node
// graph's back-reference to the freshly cloned index (spec §9, "Cyclic
// back-reference").
func (c *Container) Copy() *Container {
	newIndex := c.Index.Clone()
	newSequences := c.Graph.Sequences.Clone()
	newGraph := c.Graph.Clone(newSequences)
	newGraph.Rebind(newIndex)

	tags := make(map[string]string, len(c.Tags))
	for k, v := range c.Tags {
		tags[k] = v
	}

	return &Container{Header: c.Header, Tags: tags, Index: newIndex, Graph: newGraph}
}

// tagPair is the deterministic, sorted-by-key wire shape of the tag map, so
// two serializations of the same tags always produce identical bytes.
type tagPair struct {
	Key   string
	Value string
}

func encodeTags(tags map[string]string) []byte {
	pairs := make([]tagPair, 0, len(tags))
	for k, v := range tags {
		pairs = append(pairs, tagPair{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	blob, err := msgpack.Marshal(pairs)
	if err != nil {
		panic(fmt.Sprintf("gbz: encode tags: %v", err))
	}
	return blob
}

func decodeTags(blob []byte) (map[string]string, error) {
	var pairs []tagPair
	if err := msgpack.Unmarshal(blob, &pairs); err != nil {
		return nil, fmt.Errorf("gbz: decode tags: %w", err)
	}
	tags := make(map[string]string, len(pairs))
	for _, p := range pairs {
		tags[p.Key] = p.Value
	}
	return tags, nil
}

// nodeWire and translationWire are the wire shapes for the node graph's
// backing sequence source (spec §4.8, "node graph" section of the stream).
type nodeWire struct {
	ID       uint64
	Sequence []byte
}

type translationWire struct {
	Name  string
	Start uint64
	End   uint64
}

type graphWire struct {
	Nodes        []nodeWire
	Translations []translationWire
}

func encodeGraph(seq *seqsource.Source) []byte {
	nodes := make([]nodeWire, 0, seq.NodeCount())
	seq.ForEachNode(func(id graph.NodeID) {
		nodes = append(nodes, nodeWire{ID: uint64(id), Sequence: seq.GetSequence(id)})
	})
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	var translations []translationWire
	seq.ForEachTranslation(func(name string, r seqsource.TranslationRange) {
		translations = append(translations, translationWire{Name: name, Start: uint64(r.Start), End: uint64(r.End)})
	})
	sort.Slice(translations, func(i, j int) bool { return translations[i].Name < translations[j].Name })

	blob, err := msgpack.Marshal(graphWire{Nodes: nodes, Translations: translations})
	if err != nil {
		panic(fmt.Sprintf("gbz: encode graph: %v", err))
	}
	return blob
}

func decodeGraph(blob []byte) (*seqsource.Source, error) {
	var w graphWire
	if err := msgpack.Unmarshal(blob, &w); err != nil {
		return nil, fmt.Errorf("gbz: decode graph: %w", err)
	}
	seq := seqsource.New()
	for _, n := range w.Nodes {
		if err := seq.AddNode(graph.NodeID(n.ID), n.Sequence); err != nil {
			return nil, fmt.Errorf("gbz: decode graph: %w", err)
		}
	}
	for _, t := range w.Translations {
		if err := seq.AddTranslation(t.Name, graph.NodeID(t.Start), graph.NodeID(t.End)); err != nil {
			return nil, fmt.Errorf("gbz: decode graph: %w", err)
		}
	}
	return seq, nil
}

// writeSection writes a uint64 length prefix followed by data.
func writeSection(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readSection reads a length-prefixed section written by writeSection.
func readSection(r io.Reader) ([]byte, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Serialize streams the container in the order header, tags, path index,
// node graph, then a trailing CRC32 of everything preceding it (spec §4.8).
func (c *Container) Serialize(w io.Writer) error {
	cw := &crc32Writer{w: w, hash: crc32.NewIEEE()}

	if err := writeHeader(cw, c.Header); err != nil {
		return fmt.Errorf("gbz: write header: %w", err)
	}
	if err := writeSection(cw, encodeTags(c.Tags)); err != nil {
		return fmt.Errorf("gbz: write tags: %w", err)
	}
	indexBlob, err := c.Index.MarshalBinary()
	if err != nil {
		return fmt.Errorf("gbz: encode path index: %w", err)
	}
	if err := writeSection(cw, indexBlob); err != nil {
		return fmt.Errorf("gbz: write path index: %w", err)
	}
	if err := writeSection(cw, encodeGraph(c.Graph.Sequences)); err != nil {
		return fmt.Errorf("gbz: write node graph: %w", err)
	}

	return binary.Write(w, binary.LittleEndian, cw.hash.Sum32())
}

// Deserialize loads a container previously written by Serialize (spec
// §4.8's load sequence): verify header, load tags (forcing the "source"
// entry), load the path index, then the node graph bound to it.
func Deserialize(r io.Reader) (*Container, error) {
	cr := &crc32Reader{r: r, hash: crc32.NewIEEE()}

	hdr, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	tagsBlob, err := readSection(cr)
	if err != nil {
		return nil, fmt.Errorf("gbz: read tags: %w", err)
	}
	tags, err := decodeTags(tagsBlob)
	if err != nil {
		return nil, err
	}

	indexBlob, err := readSection(cr)
	if err != nil {
		return nil, fmt.Errorf("gbz: read path index: %w", err)
	}
	index := pathindex.New()
	if err := index.UnmarshalBinary(indexBlob); err != nil {
		return nil, fmt.Errorf("gbz: decode path index: %w", err)
	}

	graphBlob, err := readSection(cr)
	if err != nil {
		return nil, fmt.Errorf("gbz: read node graph: %w", err)
	}
	sequences, err := decodeGraph(graphBlob)
	if err != nil {
		return nil, err
	}

	var trailer uint32
	if err := binary.Read(r, binary.LittleEndian, &trailer); err != nil {
		return nil, fmt.Errorf("gbz: read checksum: %w", err)
	}
	if trailer != cr.hash.Sum32() {
		return nil, fmt.Errorf("gbz: checksum mismatch: stream corrupt")
	}

	c := &Container{Header: hdr, Tags: tags, Index: index, Graph: gbwtgraph.New(sequences, index)}
	c.setSourceTag()
	return c, nil
}

// SimpleSDSSize returns the container's size in elements without
// serializing (spec §4.8): the path index's element count plus one element
// per stored node sequence byte plus one per tag entry.
func (c *Container) SimpleSDSSize() uint64 {
	n := c.Index.SimpleSDSSize()
	n += uint64(len(c.Tags))
	c.Graph.Sequences.ForEachNode(func(id graph.NodeID) {
		n += uint64(c.Graph.Sequences.GetLength(id))
	})
	return n
}
