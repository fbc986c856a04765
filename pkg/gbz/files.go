// Two-file alternative (spec §4.8, "Two-file alternative"; spec §6,
// "Two-file artifacts"): the path index and node graph serialized to
// separate files instead of one combined stream. Grounded on
// map_router/pkg/graph/binary.go's atomic-rename-on-write pattern
// (write to a ".tmp" sibling, then os.Rename into place).
package gbz

import (
	"fmt"
	"os"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/seqsource"
)

// encodeTranslations produces the ".trans" file contents: the segment name
// -> node-range translation, sorted by name for deterministic bytes (spec
// §6, "<name>.trans (segment-name -> node-range translation, optional)").
func encodeTranslations(seq *seqsource.Source) []byte {
	var translations []translationWire
	seq.ForEachTranslation(func(name string, r seqsource.TranslationRange) {
		translations = append(translations, translationWire{Name: name, Start: uint64(r.Start), End: uint64(r.End)})
	})
	sort.Slice(translations, func(i, j int) bool { return translations[i].Name < translations[j].Name })
	blob, err := msgpack.Marshal(translations)
	if err != nil {
		panic(fmt.Sprintf("gbz: encode translations: %v", err))
	}
	return blob
}

func atomicWriteFile(path string, data []byte) (err error) {
	tmp := path + ".tmp"
	f, createErr := os.Create(tmp)
	if createErr != nil {
		return fmt.Errorf("gbz: create %s: %w", tmp, createErr)
	}
	defer func() {
		f.Close()
		if err != nil {
			os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("gbz: write %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("gbz: close %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("gbz: rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}

// SerializeToFiles writes indexPath (".gbwt": the path index blob) and
// graphPath (".ext": the node graph, always in the legacy/self-contained
// format this package implements, since the compact succinct graph format
// is delegated to the out-of-scope succinct library). translationPath is
// optional; pass "" to skip writing it.
func (c *Container) SerializeToFiles(indexPath, graphPath, translationPath string) error {
	indexBlob, err := c.Index.MarshalBinary()
	if err != nil {
		return fmt.Errorf("gbz: encode path index: %w", err)
	}
	if err := atomicWriteFile(indexPath, indexBlob); err != nil {
		return err
	}
	if err := atomicWriteFile(graphPath, encodeGraph(c.Graph.Sequences)); err != nil {
		return err
	}
	if translationPath != "" {
		if err := atomicWriteFile(translationPath, encodeTranslations(c.Graph.Sequences)); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromFiles loads a container from the two-file (or three-file, with
// translations) layout written by SerializeToFiles. Only the legacy graph
// format is accepted, per spec §4.8. Tags other than "source" are not
// carried by this layout (spec §8, testable property 4).
func LoadFromFiles(indexPath, graphPath string) (*Container, error) {
	indexBlob, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("gbz: read %s: %w", indexPath, err)
	}
	index := pathindex.New()
	if err := index.UnmarshalBinary(indexBlob); err != nil {
		return nil, fmt.Errorf("gbz: decode %s: %w", indexPath, err)
	}

	graphBlob, err := os.ReadFile(graphPath)
	if err != nil {
		return nil, fmt.Errorf("gbz: read %s: %w", graphPath, err)
	}
	sequences, err := decodeGraph(graphBlob)
	if err != nil {
		return nil, fmt.Errorf("gbz: decode %s: %w", graphPath, err)
	}

	return New(sequences, index), nil
}
