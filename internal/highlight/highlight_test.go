package highlight

import (
	"html"
	"strings"
	"testing"
)

func TestSegments_CaseInsensitive(t *testing.T) {
	segs := Segments("HTTPClient", "http")

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Text != "HTTP" || !segs[0].Match {
		t.Errorf("expected matched segment 'HTTP', got %+v", segs[0])
	}
	if segs[1].Text != "Client" || segs[1].Match {
		t.Errorf("expected unmatched segment 'Client', got %+v", segs[1])
	}
}

func TestSegments_NonOverlapping(t *testing.T) {
	// The scan advances past each match, so "aaa" holds one "aa" match.
	segs := Segments("aaa", "aa")

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Text != "aa" || !segs[0].Match {
		t.Errorf("expected matched segment 'aa', got %+v", segs[0])
	}
	if segs[1].Text != "a" || segs[1].Match {
		t.Errorf("expected unmatched trailing 'a', got %+v", segs[1])
	}
}

func TestSegments_MultipleOccurrences(t *testing.T) {
	segs := Segments("encode decode", "code")

	var matches int
	for _, seg := range segs {
		if seg.Match {
			matches++
			if strings.ToLower(seg.Text) != "code" {
				t.Errorf("expected matched text 'code', got '%s'", seg.Text)
			}
		}
	}
	if matches != 2 {
		t.Errorf("expected 2 matches, got %d", matches)
	}
}

func TestSegments_NoMatch(t *testing.T) {
	segs := Segments("install", "zzz")

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Match {
		t.Error("expected unmatched segment")
	}
}

func TestSegments_EmptyQuery(t *testing.T) {
	segs := Segments("install", "")

	if len(segs) != 1 || segs[0].Match {
		t.Errorf("expected single unmatched segment, got %+v", segs)
	}
}

func TestSegments_EmptyText(t *testing.T) {
	if segs := Segments("", "q"); segs != nil {
		t.Errorf("expected nil segments for empty text, got %+v", segs)
	}
}

func TestSegments_WholeTextMatch(t *testing.T) {
	segs := Segments("Install", "install")

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if !segs[0].Match || segs[0].Text != "Install" {
		t.Errorf("expected full match keeping original case, got %+v", segs[0])
	}
}

func TestSegments_ReassemblesOriginal(t *testing.T) {
	text := "Parser.parseExpr"

	var b strings.Builder
	for _, seg := range Segments(text, "parse") {
		b.WriteString(seg.Text)
	}

	if b.String() != text {
		t.Errorf("expected segments to reassemble '%s', got '%s'", text, b.String())
	}
}

func TestHTML_WrapsMatches(t *testing.T) {
	got := HTML("Parser", "par")

	if got != "<b>Par</b>ser" {
		t.Errorf("expected '<b>Par</b>ser', got '%s'", got)
	}
}

func TestHTML_EscapesSpecialChars(t *testing.T) {
	got := HTML(`a<b>&"'c`, "zzz")

	if strings.ContainsAny(got, `<>"'`) {
		t.Errorf("expected raw markup characters escaped, got '%s'", got)
	}
	if !strings.Contains(got, "&lt;") || !strings.Contains(got, "&amp;") {
		t.Errorf("expected entities in output, got '%s'", got)
	}
}

func TestHTML_EscapesInsideMatch(t *testing.T) {
	got := HTML("<Router>", "<router>")

	if got != "<b>&lt;Router&gt;</b>" {
		t.Errorf("expected '<b>&lt;Router&gt;</b>', got '%s'", got)
	}
}

func TestHTML_Idempotent(t *testing.T) {
	// Stripping the emphasis tags and re-highlighting must reproduce the
	// same spans.
	text := "Decoder.decodeValue"
	query := "decode"

	first := HTML(text, query)

	stripped := strings.ReplaceAll(first, "<b>", "")
	stripped = strings.ReplaceAll(stripped, "</b>", "")
	plain := html.UnescapeString(stripped)

	if plain != text {
		t.Fatalf("expected stripped text '%s', got '%s'", text, plain)
	}

	second := HTML(plain, query)
	if second != first {
		t.Errorf("expected idempotent highlight, first '%s', second '%s'", first, second)
	}
}
