// HTTP query service (SPEC_FULL.md §4.10): the three subgraph query shapes
// exposed over JSON, grounded directly on
// map_router/pkg/api/handlers.go's decode-validate-execute-respond shape.
package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"sync"

	"github.com/mobinasri/gbwtgraph/pkg/gbz"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/subgraph"
)

const defaultSampleInterval = 1024

// Handlers holds the loaded container and per-path position index cache.
type Handlers struct {
	container *gbz.Container

	positionsMu sync.Mutex
	positions   map[pathindex.PathHandle]*subgraph.PathPositions
}

// NewHandlers creates handlers serving queries against container.
func NewHandlers(container *gbz.Container) *Handlers {
	return &Handlers{container: container, positions: make(map[pathindex.PathHandle]*subgraph.PathPositions)}
}

func (h *Handlers) positionsFor(p pathindex.PathHandle) *subgraph.PathPositions {
	h.positionsMu.Lock()
	defer h.positionsMu.Unlock()
	if pp, ok := h.positions[p]; ok {
		return pp
	}
	pp := subgraph.BuildPathPositions(h.container.Graph, p, defaultSampleInterval)
	h.positions[p] = pp
	return pp
}

func haplotypeMode(distinct, referenceOnly bool) subgraph.HaplotypeMode {
	switch {
	case referenceOnly:
		return subgraph.ReferenceOnly
	case distinct:
		return subgraph.DistinctHaplotypes
	default:
		return subgraph.AllHaplotypes
	}
}

func (h *Handlers) findPath(sample, contig string) (pathindex.PathHandle, bool) {
	if sample == "" {
		sample = pathindex.ReferencePathSampleName
	}
	found := h.container.Index.FindPaths(sample, contig)
	if len(found) == 0 {
		return 0, false
	}
	return found[0], true
}

// HandleHealth handles GET /v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		NodeCount: h.container.Graph.NodeCount(),
		PathCount: h.container.Graph.PathCount(),
	})
}

// HandleNodeQuery handles POST /v1/subgraph/node.
func (h *Handlers) HandleNodeQuery(w http.ResponseWriter, r *http.Request) {
	var req NodeQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sg, err := subgraph.NodeQuery(h.container.Graph, graph.NodeID(req.Node), req.Context)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SubgraphResponse{GFA: subgraph.ExportGFA(sg, haplotypeMode(req.Distinct, req.Reference))})
}

// HandlePathOffsetQuery handles POST /v1/subgraph/path-offset.
func (h *Handlers) HandlePathOffsetQuery(w http.ResponseWriter, r *http.Request) {
	var req PathOffsetQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, ok := h.findPath(req.Sample, req.Contig)
	if !ok {
		writeError(w, http.StatusNotFound, "no matching path")
		return
	}
	sg, err := subgraph.PathOffsetQuery(h.container.Graph, h.positionsFor(p), req.Offset, req.Context)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SubgraphResponse{GFA: subgraph.ExportGFA(sg, haplotypeMode(req.Distinct, req.Reference))})
}

// HandlePathIntervalQuery handles POST /v1/subgraph/path-interval.
func (h *Handlers) HandlePathIntervalQuery(w http.ResponseWriter, r *http.Request) {
	var req PathIntervalQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, ok := h.findPath(req.Sample, req.Contig)
	if !ok {
		writeError(w, http.StatusNotFound, "no matching path")
		return
	}
	sg, err := subgraph.PathIntervalQuery(h.container.Graph, h.positionsFor(p), req.Begin, req.End, req.Context)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SubgraphResponse{GFA: subgraph.ExportGFA(sg, haplotypeMode(req.Distinct, req.Reference))})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "expected application/json")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
