// gbz-serve starts the HTTP subgraph query service over a loaded GBZ
// container (SPEC_FULL.md §4.10). Grounded on
// map_router/cmd/server/main.go's load-then-serve shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mobinasri/gbwtgraph/pkg/api"
	"github.com/mobinasri/gbwtgraph/pkg/gbz"
)

func main() {
	gbzPath := flag.String("gbz", "", "Path to a single-file .gbz container")
	indexPath := flag.String("index", "", "Path to a .gbwt path index file (two-file layout)")
	graphPath := flag.String("graph", "", "Path to a .ext node graph file (two-file layout)")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	start := time.Now()

	var container *gbz.Container
	var err error
	switch {
	case *gbzPath != "":
		log.Printf("Loading %s...", *gbzPath)
		f, openErr := os.Open(*gbzPath)
		if openErr != nil {
			log.Fatalf("Failed to open %s: %v", *gbzPath, openErr)
		}
		defer f.Close()
		container, err = gbz.Deserialize(f)
	case *indexPath != "" && *graphPath != "":
		log.Printf("Loading %s and %s...", *indexPath, *graphPath)
		container, err = gbz.LoadFromFiles(*indexPath, *graphPath)
	default:
		fmt.Fprintln(os.Stderr, "Usage: gbz-serve --gbz <file.gbz> | --index <file.gbwt> --graph <file.ext> [--port 8080]")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Failed to load container: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d paths in %s", container.Graph.NodeCount(), container.Graph.PathCount(), time.Since(start).Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(container)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
