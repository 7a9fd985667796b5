package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/mfaulds/docdex/internal/engine"
	"github.com/mfaulds/docdex/internal/render"
)

// SearchResult is one row of the JSON search response. Scores stay internal
// to the ranking and are never exposed here.
type SearchResult struct {
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	Kind       string   `json:"kind"`
	Parent     string   `json:"parent,omitempty"`
	Classes    string   `json:"classes,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Status  string         `json:"status"`
	Results []SearchResult `json:"results"`
}

type Server struct {
	engine   *engine.Engine
	dataPath string
	baseURL  string
	mux      *http.ServeMux
}

func New(eng *engine.Engine, dataPath, baseURL string) (*Server, error) {
	if eng == nil {
		return nil, errors.New("server: nil engine")
	}

	s := &Server{
		engine:   eng,
		dataPath: dataPath,
		baseURL:  baseURL,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/api/search", s.handleAPISearch)
	s.mux.HandleFunc("/data.json", s.handleData)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func errWriter(w http.ResponseWriter, status int, err error) {
	jsonBytes, jsonErr := json.Marshal(map[string]interface{}{
		"err": fmt.Sprintf("%v", err),
	})
	if jsonErr != nil {
		jsonBytes = []byte(fmt.Sprintf("err: %v", err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonBytes)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}

	s.writePage(w, "", nil)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}

	query := r.URL.Query().Get("q")
	s.writePage(w, query, s.engine.Search(query))
}

func (s *Server) writePage(w http.ResponseWriter, query string, matches []engine.Match) {
	items := render.Items(matches, query, s.baseURL)
	widget := render.Container(s.engine.Status(), false, query, items)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageTemplate, widget)
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}

	query := r.URL.Query().Get("q")
	matches := s.engine.Search(query)
	ds := s.engine.Dataset()

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		result := SearchResult{
			Name:       m.Row.Name,
			URL:        s.baseURL + m.Row.URL,
			Parent:     m.Row.Parent,
			Classes:    m.Row.Classes,
			Categories: m.Row.Categories,
		}
		if ds != nil {
			result.Kind = ds.KindLabel(m.Row.Kind)
		}
		results[i] = result
	}

	resp := SearchResponse{
		Query:   query,
		Status:  s.engine.Status().String(),
		Results: results,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errWriter(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}

	if _, err := os.Stat(s.dataPath); os.IsNotExist(err) {
		errWriter(w, http.StatusNotFound, errors.New("dataset not built yet"))
		return
	}

	http.ServeFile(w, r, s.dataPath)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		errWriter(w, http.StatusMethodNotAllowed, errors.New("unsupported method"))
		return
	}

	resp := map[string]interface{}{
		"status": s.engine.Status().String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errWriter(w, http.StatusInternalServerError, err)
	}
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<title>docdex</title>
</head>
<body>
<form action="/search" method="get">
%s
</form>
</body>
</html>
`
