package builder

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type frontMatter struct {
	Title      string   `yaml:"title"`
	Kind       string   `yaml:"kind"`
	Parent     string   `yaml:"parent"`
	Classes    string   `yaml:"classes"`
	Categories []string `yaml:"categories"`
}

// splitFrontMatter separates a leading YAML block fenced by --- lines from
// the page body. Pages without a fence pass through untouched.
func splitFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter

	lines := strings.Split(content, "\n")
	start, end := frontmatterBounds(lines)
	if start < 0 {
		return fm, content, nil
	}

	block := strings.Join(lines[start+1:end], "\n")
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return fm, "", fmt.Errorf("invalid front matter: %w", err)
	}

	return fm, strings.Join(lines[end+1:], "\n"), nil
}

func frontmatterBounds(lines []string) (int, int) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return -1, -1
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i
		}
	}
	return -1, -1
}
