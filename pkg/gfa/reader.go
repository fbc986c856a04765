// Grounded on map_router/pkg/osm/parser.go's two-pass io.ReadSeeker scan
// (there: one pass to size node/way arrays, one pass to fill them). Here the
// file is memory-mapped with golang.org/x/exp/mmap so five passes over the
// same bytes never load the whole file into a process-owned buffer at once;
// each pass opens its own io.SectionReader over the mapping and scans it
// line by line.
package gfa

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/mmap"
)

// source wraps a memory-mapped text file and exposes independent streaming
// passes over its lines.
type source struct {
	reader *mmap.ReaderAt
	size   int64
}

func openSource(path string) (*source, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gfa: open %s: %w", path, err)
	}
	return &source{reader: r, size: int64(r.Len())}, nil
}

func (s *source) Close() error { return s.reader.Close() }

// forEachLine scans every line of the file whose first field equals
// wantType (a single-letter GFA record type), splitting it on tabs and
// calling visit. A returned error aborts the scan.
func (s *source) forEachLine(wantType byte, visit func(fields []string) error) error {
	scanner := bufio.NewScanner(io.NewSectionReader(s.reader, 0, s.size))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<28)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || line[0] != wantType {
			continue
		}
		fields := strings.Split(line, "\t")
		if err := visit(fields); err != nil {
			return fmt.Errorf("gfa: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("gfa: scan: %w", err)
	}
	return nil
}
