// subgraph_query runs a single subgraph query against a GBZ container and
// prints the normalized GFA result to stdout (spec §6, "subgraph_query").
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mobinasri/gbwtgraph/pkg/gbz"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/subgraph"
)

func main() {
	gbzPath := flag.String("gbz", "", "Path to a single-file .gbz container")
	indexPath := flag.String("index", "", "Path to a .gbwt path index file (two-file layout)")
	graphPath := flag.String("graph", "", "Path to a .ext node graph file (two-file layout)")

	node := flag.Uint64("node", 0, "Node id for a node query")
	sample := flag.String("sample", "", "Sample name for a path query (default: reference sentinel)")
	contig := flag.String("contig", "", "Contig name for a path query")
	offset := flag.Uint64("offset", 0, "Basepair offset for a path-offset query")
	interval := flag.String("interval", "", "Basepair interval \"begin..end\" for a path-interval query")
	context := flag.Int("context", 0, "Context in basepairs to extend the query")
	distinct := flag.Bool("distinct", false, "Emit only distinct haplotypes")
	referenceOnly := flag.Bool("reference-only", false, "Emit only reference-sense paths")
	flag.Parse()

	container, err := loadContainer(*gbzPath, *indexPath, *graphPath)
	if err != nil {
		log.Fatalf("Failed to load container: %v", err)
	}

	mode := subgraph.AllHaplotypes
	switch {
	case *referenceOnly:
		mode = subgraph.ReferenceOnly
	case *distinct:
		mode = subgraph.DistinctHaplotypes
	}

	var sg *subgraph.Subgraph
	switch {
	case *node != 0:
		sg, err = subgraph.NodeQuery(container.Graph, graph.NodeID(*node), *context)
	case *contig != "":
		sampleName := *sample
		p, ok := findPath(container, sampleName, *contig)
		if !ok {
			log.Fatalf("No path found for sample=%q contig=%q", sampleName, *contig)
		}
		pp := subgraph.BuildPathPositions(container.Graph, p, 1024)
		if *interval != "" {
			begin, end, parseErr := parseInterval(*interval)
			if parseErr != nil {
				log.Fatalf("Invalid --interval (expected begin..end): %v", parseErr)
			}
			sg, err = subgraph.PathIntervalQuery(container.Graph, pp, begin, end, *context)
		} else {
			sg, err = subgraph.PathOffsetQuery(container.Graph, pp, *offset, *context)
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: subgraph_query --gbz <file.gbz> (--node <id> | --contig <name> [--sample <name>] (--offset <bp> | --interval <begin..end>)) [--context <bp>]")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	fmt.Print(subgraph.ExportGFA(sg, mode))
}

func loadContainer(gbzPath, indexPath, graphPath string) (*gbz.Container, error) {
	switch {
	case gbzPath != "":
		f, err := os.Open(gbzPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return gbz.Deserialize(f)
	case indexPath != "" && graphPath != "":
		return gbz.LoadFromFiles(indexPath, graphPath)
	default:
		return nil, fmt.Errorf("must pass --gbz or both --index and --graph")
	}
}

// parseInterval parses the spec's "M..N" interval syntax (spec §6,
// "--interval").
func parseInterval(s string) (begin, end uint64, err error) {
	parts := strings.SplitN(s, "..", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected the form begin..end, got %q", s)
	}
	begin, err = strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	end, err = strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return begin, end, nil
}

func findPath(c *gbz.Container, sample, contig string) (pathindex.PathHandle, bool) {
	if sample == "" {
		sample = pathindex.ReferencePathSampleName
	}
	found := c.Index.FindPaths(sample, contig)
	if len(found) == 0 {
		return 0, false
	}
	return found[0], true
}
