package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/mfaulds/docdex/internal/dataset"
	"github.com/mfaulds/docdex/internal/engine"
	"github.com/mfaulds/docdex/internal/highlight"
)

// Styling contract: these names are what site stylesheets target, together
// with the engine state classes loading/ready/failure.
const (
	ContainerID  = "docdex-search"
	FieldID      = "docdex-search-field"
	ClassFocus   = "has-focus"
	ClassCurrent = "current"
)

// Item renders one result as a list item. The row name carries every query
// occurrence emphasized; a parent qualifier is prefixed in its own span,
// highlighted the same way, with the separator inside the span.
func Item(row dataset.Row, query, baseURL string) string {
	var b strings.Builder

	b.WriteString("<li")
	if row.Classes != "" {
		fmt.Fprintf(&b, ` class="%s"`, html.EscapeString(row.Classes))
	}
	b.WriteString(`><a href="`)
	b.WriteString(html.EscapeString(baseURL + row.URL))
	b.WriteString(`">`)

	if row.Parent != "" {
		b.WriteString(`<span class="parent">`)
		b.WriteString(highlight.HTML(row.Parent, query))
		b.WriteString(`.</span>`)
	}
	b.WriteString(highlight.HTML(row.Name, query))

	b.WriteString("</a></li>")
	return b.String()
}

// Items renders the full result list body. Every update rebuilds the whole
// list, so callers replace prior content rather than appending.
func Items(matches []engine.Match, query, baseURL string) string {
	trimmed := strings.TrimSpace(query)

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = Item(m.Row, trimmed, baseURL)
	}
	return strings.Join(parts, "\n")
}

func Container(status engine.Status, focused bool, fieldValue, itemsHTML string) string {
	classes := status.String()
	if focused {
		classes += " " + ClassFocus
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="%s">`, ContainerID, classes)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<input type="search" id="%s" name="q" autocomplete="off"`, FieldID)
	if fieldValue != "" {
		fmt.Fprintf(&b, ` value="%s"`, html.EscapeString(fieldValue))
	}
	b.WriteString(" />\n")
	b.WriteString(`<ul class="results">`)
	if itemsHTML != "" {
		b.WriteString("\n")
		b.WriteString(itemsHTML)
		b.WriteString("\n")
	}
	b.WriteString("</ul>\n</div>\n")
	return b.String()
}
