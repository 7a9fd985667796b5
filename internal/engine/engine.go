package engine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/mfaulds/docdex/internal/dataset"
)

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// String values double as the widget state classes.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failure"
	default:
		return "loading"
	}
}

type Match struct {
	Row   dataset.Row
	Score float64
}

// Engine materializes its index from the source on the first search and
// keeps it for its whole lifetime. A not-ready source leaves the engine
// loading; any other load failure is terminal.
type Engine struct {
	source dataset.Source

	mu          sync.RWMutex
	status      Status
	ds          *dataset.Dataset
	idx         bleve.Index
	kindByLabel map[string]int
	loadErr     error
}

func New(source dataset.Source) (*Engine, error) {
	if source == nil {
		return nil, errors.New("engine: nil dataset source")
	}
	return &Engine{source: source, status: StatusLoading}, nil
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loadErr
}

func (e *Engine) Dataset() *dataset.Dataset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ds
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.idx == nil {
		return nil
	}
	idx := e.idx
	e.idx = nil
	return idx.Close()
}

// Search returns the ranked matches for rawQuery. Errors never escape: an
// unloaded or failed engine and an empty trimmed query all yield no
// results. An empty trimmed query returns before the index is consulted,
// so it never triggers the initial load.
func (e *Engine) Search(rawQuery string) []Match {
	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" {
		return nil
	}

	e.ensureLoaded()

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.status != StatusReady || e.idx == nil {
		return nil
	}

	hits, err := e.runQuery(trimmed)
	if err != nil {
		return nil
	}

	matches := make([]Match, 0, len(hits))
	for _, hit := range hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(e.ds.Rows) {
			continue
		}
		matches = append(matches, Match{Row: e.ds.Rows[pos], Score: hit.Score})
	}

	if e.ds.Boosts != nil {
		e.applyBoosts(trimmed, matches)
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
	}

	if limit := e.ds.ResultLimit(); len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (e *Engine) ensureLoaded() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusLoading {
		return
	}

	ds, err := e.source.Load()
	if errors.Is(err, dataset.ErrNotReady) {
		return
	}
	if err != nil {
		e.status = StatusFailed
		e.loadErr = err
		return
	}

	idx, err := buildIndex(ds.Rows)
	if err != nil {
		e.status = StatusFailed
		e.loadErr = err
		return
	}

	e.ds = ds
	e.idx = idx
	e.kindByLabel = ds.KindsByLabel()
	e.status = StatusReady
}

func buildIndex(rows []dataset.Row) (bleve.Index, error) {
	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("parent", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := idx.NewBatch()
	for i, row := range rows {
		doc := map[string]string{"name": row.Name, "parent": row.Parent}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			return nil, fmt.Errorf("failed to index row %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to index rows: %w", err)
	}

	return idx, nil
}

// runQuery turns each query token into an infix wildcard over the name and
// parent fields and ORs them together. Callers hold at least a read lock.
func (e *Engine) runQuery(trimmed string) ([]*search.DocumentMatch, error) {
	var queries []query.Query
	for _, token := range strings.Fields(strings.ToLower(trimmed)) {
		pattern := "*" + token + "*"

		name := bleve.NewWildcardQuery(pattern)
		name.SetField("name")
		parent := bleve.NewWildcardQuery(pattern)
		parent.SetField("parent")

		queries = append(queries, name, parent)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), len(e.ds.Rows), 0, false)
	res, err := e.idx.Search(req)
	if err != nil {
		return nil, err
	}
	return res.Hits, nil
}

func (e *Engine) applyBoosts(trimmed string, matches []Match) {
	boosts := e.ds.Boosts
	for i := range matches {
		row := matches[i].Row
		mult := 1.0

		if boosts.ExactMatch != 0 && strings.EqualFold(row.Name, trimmed) {
			mult *= boosts.ExactMatch
		}
		for label, m := range boosts.ByKind {
			// Unknown labels resolve to nothing and boost nothing.
			if id, ok := e.kindByLabel[strings.ToLower(label)]; ok && id == row.Kind {
				mult *= m
			}
		}
		for category, m := range boosts.ByCategory {
			if rowHasCategory(row, category) {
				mult *= m
			}
		}

		matches[i].Score *= mult
	}
}

func rowHasCategory(row dataset.Row, category string) bool {
	for _, c := range row.Categories {
		if c == category {
			return true
		}
	}
	return false
}
