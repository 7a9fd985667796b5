package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mfaulds/docdex/internal/dataset"
	"github.com/mfaulds/docdex/internal/engine"
)

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Kinds: map[int]string{1: "guide", 2: "reference"},
		Rows: []dataset.Row{
			{Kind: 1, Name: "Parser", URL: "/parser.html"},
			{Kind: 2, Name: "Encode", URL: "/encode.html", Parent: "Codec"},
		},
	}
}

// newTestServer builds a server over a file-backed source. With built false
// the dataset file does not exist yet, so the engine reports loading.
func newTestServer(t *testing.T, built bool) (*Server, string) {
	t.Helper()

	dataPath := filepath.Join(t.TempDir(), "search.json")
	if built {
		if err := testDataset().WriteFile(dataPath); err != nil {
			t.Fatalf("failed to write dataset: %v", err)
		}
	}

	eng, err := engine.New(&dataset.FileSource{Path: dataPath})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	t.Cleanup(func() { eng.Close() })

	srv, err := New(eng, dataPath, "https://docs.example")
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv, dataPath
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func TestNew_NilEngine(t *testing.T) {
	if _, err := New(nil, "search.json", ""); err == nil {
		t.Error("expected error for nil engine, got nil")
	}
}

func TestIndexPage_ServesWidget(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := get(t, srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `id="docdex-search"`) {
		t.Errorf("expected widget container in page, got %s", rr.Body.String())
	}
}

func TestIndexPage_UnknownPathNotFound(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := get(t, srv, "/nope")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404; got %d", rr.Code)
	}
}

func TestSearchPage_RendersResults(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := get(t, srv, "/search?q=parser")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, `class="ready"`) {
		t.Errorf("expected ready state class, got %s", body)
	}
	if !strings.Contains(body, "<b>Parser</b>") {
		t.Errorf("expected highlighted result, got %s", body)
	}
	if !strings.Contains(body, `href="https://docs.example/parser.html"`) {
		t.Errorf("expected result link under base URL, got %s", body)
	}
	if !strings.Contains(body, `value="parser"`) {
		t.Errorf("expected query echoed in the field, got %s", body)
	}
}

func TestSearchPage_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/search?q=x", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405; got %d", rr.Code)
	}
}

func TestAPISearch_ResultsWithoutScores(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := get(t, srv, "/api/search?q=encode")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rr.Code)
	}

	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ready" {
		t.Errorf("expected status ready, got %q", resp.Status)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}

	got := resp.Results[0]
	if got.Name != "Encode" || got.Parent != "Codec" || got.Kind != "reference" {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.URL != "https://docs.example/encode.html" {
		t.Errorf("expected full link, got %q", got.URL)
	}
}

func TestAPISearch_NeverExposesScores(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := get(t, srv, "/api/search?q=parser")
	if strings.Contains(strings.ToLower(rr.Body.String()), "score") {
		t.Errorf("expected no score field in response, got %s", rr.Body.String())
	}
}

func TestAPISearch_EmptyQueryLeavesEngineIdle(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := get(t, srv, "/api/search?q=")
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results, got %d", len(resp.Results))
	}
	if resp.Status != "loading" {
		t.Errorf("expected empty query not to trigger the load, got status %q", resp.Status)
	}
}

func TestAPISearch_LoadsOnFirstQuery(t *testing.T) {
	srv, dataPath := newTestServer(t, false)

	rr := get(t, srv, "/api/search?q=parser")
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "loading" || len(resp.Results) != 0 {
		t.Fatalf("expected loading and no results before build, got %q with %d results",
			resp.Status, len(resp.Results))
	}

	if err := testDataset().WriteFile(dataPath); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	rr = get(t, srv, "/api/search?q=parser")
	resp = SearchResponse{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ready" {
		t.Errorf("expected status ready once built, got %q", resp.Status)
	}
	if len(resp.Results) != 1 || resp.Results[0].Name != "Parser" {
		t.Errorf("expected the parser result, got %+v", resp.Results)
	}
}

func TestDataJSON_NotFoundUntilBuilt(t *testing.T) {
	srv, dataPath := newTestServer(t, false)

	rr := get(t, srv, "/data.json")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before build; got %d", rr.Code)
	}

	if err := testDataset().WriteFile(dataPath); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	rr = get(t, srv, "/data.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 after build; got %d", rr.Code)
	}

	ds, err := dataset.Parse(rr.Body.Bytes())
	if err != nil {
		t.Fatalf("served dataset does not parse: %v", err)
	}
	if len(ds.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(ds.Rows))
	}
}

func TestHealthz_ReportsEngineStatus(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := get(t, srv, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d", rr.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "loading" {
		t.Errorf("expected loading before first query, got %v", resp["status"])
	}

	get(t, srv, "/api/search?q=parser")

	rr = get(t, srv, "/healthz")
	resp = map[string]interface{}{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "ready" {
		t.Errorf("expected ready after first query, got %v", resp["status"])
	}
}
