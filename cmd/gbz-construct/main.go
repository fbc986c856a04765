// gbz-construct builds a GBZ container from a GFA-like text file
// (SPEC_FULL.md §6.NEW). Grounded on
// map_router/cmd/preprocess/main.go's flag-parse, log-each-stage,
// write-binary-output shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/mobinasri/gbwtgraph/pkg/gbz"
	"github.com/mobinasri/gbwtgraph/pkg/gfa"
)

// fileConfig is the optional YAML config file shape, letting build options
// live outside the command line (spec §6.NEW, "--config").
type fileConfig struct {
	MaxNodeLength      int    `yaml:"max_node_length"`
	ApproximateNumJobs int    `yaml:"approximate_jobs"`
	ParallelJobs       int    `yaml:"parallel_jobs"`
	PathNameRegex      string `yaml:"path_name_regex"`
	PathNameFields     string `yaml:"path_name_fields"`
}

func main() {
	input := flag.String("input", "", "Path to input GFA-like text file")
	output := flag.String("output", "graph.gbz", "Output GBZ file path")
	config := flag.String("config", "", "Optional YAML config file for build options")
	maxNodeLength := flag.Int("max-node-length", 1024, "Maximum node sequence length before chopping")
	approximateJobs := flag.Int("approximate-jobs", 1, "Approximate number of construction jobs")
	parallelJobs := flag.Int("parallel-jobs", 0, "Maximum concurrent construction jobs (0 -> 1)")
	pathNameRegex := flag.String("path-name-regex", "", "Regex for parsing P-line path names into metadata fields")
	pathNameFields := flag.String("path-name-fields", "", "Submatch-to-field mapping for --path-name-regex (letters from SCHF)")
	twoFile := flag.Bool("two-file", false, "Write the two-file (.gbwt/.ext) layout instead of a single .gbz stream")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: gbz-construct --input <file.gfa> [--output graph.gbz] [--config config.yaml] [flags]")
		os.Exit(1)
	}

	opts := gfa.BuildOptions{
		MaxNodeLength:      *maxNodeLength,
		ApproximateNumJobs: *approximateJobs,
		ParallelJobs:       *parallelJobs,
		PathNameRegex:      *pathNameRegex,
		PathNameFields:     *pathNameFields,
	}
	if *config != "" {
		if err := applyConfigFile(*config, &opts); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		// Flags given on the command line take precedence over the config file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "max-node-length":
				opts.MaxNodeLength = *maxNodeLength
			case "approximate-jobs":
				opts.ApproximateNumJobs = *approximateJobs
			case "parallel-jobs":
				opts.ParallelJobs = *parallelJobs
			case "path-name-regex":
				opts.PathNameRegex = *pathNameRegex
			case "path-name-fields":
				opts.PathNameFields = *pathNameFields
			}
		})
	}

	start := time.Now()

	log.Printf("Parsing %s...", *input)
	result, err := gfa.Build(*input, opts)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	log.Printf("Graph: %d nodes, %d paths, %d jobs, %d components",
		result.Graph.NodeCount(), result.Graph.PathCount(), result.Jobs.JobCount(), result.Jobs.ComponentCount())

	container := gbz.New(result.Graph.Sequences, result.Graph.Index)

	if *twoFile {
		indexPath := *output + ".gbwt"
		graphPath := *output + ".ext"
		log.Printf("Writing %s and %s...", indexPath, graphPath)
		if err := container.SerializeToFiles(indexPath, graphPath, *output+".trans"); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
	} else {
		log.Printf("Writing %s...", *output)
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *output, err)
		}
		defer f.Close()
		if err := container.Serialize(f); err != nil {
			log.Fatalf("Failed to serialize container: %v", err)
		}
	}

	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

func applyConfigFile(path string, opts *gfa.BuildOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.MaxNodeLength != 0 {
		opts.MaxNodeLength = cfg.MaxNodeLength
	}
	if cfg.ApproximateNumJobs != 0 {
		opts.ApproximateNumJobs = cfg.ApproximateNumJobs
	}
	if cfg.ParallelJobs != 0 {
		opts.ParallelJobs = cfg.ParallelJobs
	}
	if cfg.PathNameRegex != "" {
		opts.PathNameRegex = cfg.PathNameRegex
	}
	if cfg.PathNameFields != "" {
		opts.PathNameFields = cfg.PathNameFields
	}
	return nil
}
