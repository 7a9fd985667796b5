package builder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mfaulds/docdex/internal/dataset"
)

const DefaultKindLabel = "page"

type Builder struct {
	dir        string
	boosts     *dataset.Boosts
	numResults int
}

type Progress struct {
	Current  int
	Total    int
	FilePath string
	Message  string
}

type ProgressFunc func(Progress)

type page struct {
	relPath string
	fm      frontMatter
	name    string
}

func New(docsDir string, boosts *dataset.Boosts, numResults int) *Builder {
	return &Builder{
		dir:        docsDir,
		boosts:     boosts,
		numResults: numResults,
	}
}

func (b *Builder) Build(progress ProgressFunc) (*dataset.Dataset, error) {
	files, err := b.findMarkdownFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to find markdown files: %w", err)
	}

	pages := make([]page, 0, len(files))
	for i, relPath := range files {
		if progress != nil {
			progress(Progress{
				Current:  i + 1,
				Total:    len(files),
				FilePath: relPath,
				Message:  fmt.Sprintf("Scanning %s", filepath.Base(relPath)),
			})
		}

		p, err := b.parsePage(relPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", relPath, err)
		}
		pages = append(pages, p)
	}

	kinds, kindIDs := assignKinds(pages)

	rows := make([]dataset.Row, len(pages))
	for i, p := range pages {
		rows[i] = dataset.Row{
			ID:         i,
			Kind:       kindIDs[p.kindLabel()],
			Name:       p.name,
			URL:        pageURL(p.relPath),
			Classes:    p.fm.Classes,
			Parent:     p.fm.Parent,
			Categories: p.fm.Categories,
		}
	}

	if progress != nil {
		progress(Progress{Message: fmt.Sprintf("Indexed %d pages", len(rows))})
	}

	return &dataset.Dataset{
		Kinds:      kinds,
		Rows:       rows,
		Boosts:     b.boosts,
		NumResults: b.numResults,
	}, nil
}

func (b *Builder) BuildFile(dataPath string, progress ProgressFunc) error {
	ds, err := b.Build(progress)
	if err != nil {
		return err
	}

	if err := ds.WriteFile(dataPath); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

func (b *Builder) findMarkdownFiles() ([]string, error) {
	var files []string
	err := filepath.Walk(b.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if isHiddenDir(info.Name()) && path != b.dir {
				return filepath.SkipDir
			}
			return nil
		}

		if isMarkdownFile(info.Name()) {
			relPath, err := filepath.Rel(b.dir, path)
			if err != nil {
				return err
			}
			files = append(files, relPath)
		}

		return nil
	})

	return files, err
}

func (b *Builder) parsePage(relPath string) (page, error) {
	content, err := os.ReadFile(filepath.Join(b.dir, relPath))
	if err != nil {
		return page{}, err
	}

	fm, body, err := splitFrontMatter(string(content))
	if err != nil {
		return page{}, err
	}

	name := strings.TrimSpace(fm.Title)
	if name == "" {
		name = extractTitle(body, relPath)
	}

	return page{relPath: relPath, fm: fm, name: name}, nil
}

func (p page) kindLabel() string {
	label := strings.ToLower(strings.TrimSpace(p.fm.Kind))
	if label == "" {
		return DefaultKindLabel
	}
	return label
}

// assignKinds gives each distinct kind label a stable id: labels sorted,
// ids counted from 1.
func assignKinds(pages []page) (map[int]string, map[string]int) {
	seen := make(map[string]bool)
	for _, p := range pages {
		seen[p.kindLabel()] = true
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	kinds := make(map[int]string, len(labels))
	kindIDs := make(map[string]int, len(labels))
	for i, label := range labels {
		kinds[i+1] = label
		kindIDs[label] = i + 1
	}
	return kinds, kindIDs
}

func extractTitle(content, relPath string) string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}

	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func pageURL(relPath string) string {
	ext := filepath.Ext(relPath)
	return filepath.ToSlash(strings.TrimSuffix(relPath, ext)) + ".html"
}
