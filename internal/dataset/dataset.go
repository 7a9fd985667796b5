package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

const DefaultNumResults = 10

var ErrNotReady = errors.New("dataset not ready")

type Row struct {
	ID         int      `json:"id"`
	Kind       int      `json:"kind"`
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	Classes    string   `json:"classes,omitempty"`
	Parent     string   `json:"parent,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

type Boosts struct {
	ExactMatch float64            `json:"exactMatch,omitempty"`
	ByKind     map[string]float64 `json:"byKind,omitempty"`
	ByCategory map[string]float64 `json:"byCategory,omitempty"`
}

type Dataset struct {
	Kinds      map[int]string `json:"kinds"`
	Rows       []Row          `json:"rows"`
	Boosts     *Boosts        `json:"boosts,omitempty"`
	NumResults int            `json:"numResults,omitempty"`
}

func (d *Dataset) ResultLimit() int {
	if d.NumResults > 0 {
		return d.NumResults
	}
	return DefaultNumResults
}

func (d *Dataset) KindLabel(kind int) string {
	return d.Kinds[kind]
}

// KindsByLabel returns a lowercased label to kind id map. When two kinds
// share a folded label, the smallest id owns it.
func (d *Dataset) KindsByLabel() map[string]int {
	ids := make([]int, 0, len(d.Kinds))
	for id := range d.Kinds {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	byLabel := make(map[string]int, len(ids))
	for _, id := range ids {
		label := strings.ToLower(d.Kinds[id])
		if _, ok := byLabel[label]; !ok {
			byLabel[label] = id
		}
	}
	return byLabel
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	// Rows are addressed by position everywhere else.
	for i := range ds.Rows {
		ds.Rows[i].ID = i
	}

	return &ds, nil
}

func (d *Dataset) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
