package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mobinasri/gbwtgraph/pkg/gbz"
	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/mobinasri/gbwtgraph/pkg/seqsource"
)

func sampleContainer(t *testing.T) *gbz.Container {
	t.Helper()
	seq := seqsource.New()
	seq.AddNode(1, []byte("ACGT"))
	seq.AddNode(2, []byte("GGCC"))
	idx := pathindex.New()
	idx.Insert([]graph.Handle{graph.NewHandle(1, false), graph.NewHandle(2, false)},
		pathindex.Metadata{Sample: pathindex.ReferencePathSampleName, Contig: "chr1"})
	return gbz.New(seq, idx)
}

func postJSON(h *Handlers, handler func(w http.ResponseWriter, r *http.Request), path string, body any) *httptest.ResponseRecorder {
	blob, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(blob))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(sampleContainer(t))
	req := httptest.NewRequest("GET", "/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want ok", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHandlers(sampleContainer(t))
	req := httptest.NewRequest("GET", "/v1/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	var resp StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.NodeCount != 2 || resp.PathCount != 1 {
		t.Errorf("got %+v, want NodeCount=2 PathCount=1", resp)
	}
}

func TestHandleNodeQuery(t *testing.T) {
	h := NewHandlers(sampleContainer(t))
	w := postJSON(h, h.HandleNodeQuery, "/v1/subgraph/node", NodeQueryRequest{Node: 1, Context: 4})
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	var resp SubgraphResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.GFA == "" {
		t.Error("expected non-empty GFA export")
	}
}

func TestHandleNodeQueryUnknownNode(t *testing.T) {
	h := NewHandlers(sampleContainer(t))
	w := postJSON(h, h.HandleNodeQuery, "/v1/subgraph/node", NodeQueryRequest{Node: 999, Context: 4})
	if w.Code != 422 {
		t.Errorf("status = %d, want 422 for an unknown node", w.Code)
	}
}

func TestHandlePathOffsetQueryUnknownPath(t *testing.T) {
	h := NewHandlers(sampleContainer(t))
	w := postJSON(h, h.HandlePathOffsetQuery, "/v1/subgraph/path-offset", PathOffsetQueryRequest{Contig: "nope"})
	if w.Code != 404 {
		t.Errorf("status = %d, want 404 for an unmatched path", w.Code)
	}
}

func TestDecodeJSONRejectsWrongContentType(t *testing.T) {
	h := NewHandlers(sampleContainer(t))
	req := httptest.NewRequest("POST", "/v1/subgraph/node", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	h.HandleNodeQuery(w, req)
	if w.Code != 400 {
		t.Errorf("status = %d, want 400 for missing content-type", w.Code)
	}
}
