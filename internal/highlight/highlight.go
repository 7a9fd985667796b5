package highlight

import (
	"html"
	"strings"
)

type Segment struct {
	Text  string
	Match bool
}

// Segments splits text around every case-insensitive occurrence of query,
// scanning left to right and advancing past each match so matches never
// overlap.
func Segments(text, query string) []Segment {
	if text == "" {
		return nil
	}

	q := strings.ToLower(query)
	lower := strings.ToLower(text)

	// Offsets into the folded string only line up with the original when
	// folding preserves byte length.
	if q == "" || len(lower) != len(text) {
		return []Segment{{Text: text}}
	}

	var segs []Segment
	i := 0
	for {
		j := strings.Index(lower[i:], q)
		if j < 0 {
			break
		}
		j += i
		if j > i {
			segs = append(segs, Segment{Text: text[i:j]})
		}
		segs = append(segs, Segment{Text: text[j : j+len(q)], Match: true})
		i = j + len(q)
	}
	if i < len(text) {
		segs = append(segs, Segment{Text: text[i:]})
	}
	return segs
}

// HTML renders text with every query occurrence wrapped in <b> tags and
// everything else escaped.
func HTML(text, query string) string {
	var b strings.Builder
	for _, seg := range Segments(text, query) {
		if seg.Match {
			b.WriteString("<b>")
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString("</b>")
		} else {
			b.WriteString(html.EscapeString(seg.Text))
		}
	}
	return b.String()
}
