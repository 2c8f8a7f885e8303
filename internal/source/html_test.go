package source

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHTMLParser(t *testing.T) {
	input := `<html><head><title>Trip Notes</title></head><body>
<nav>Menu</nav>
<p>Intro   text
 here.</p>
<h2>Day One</h2>
<p>Line one<br>Line two</p>
<p>See <a href="http://example.com/a" class="x">example.com/a</a> now.</p>
<script>var x;</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Trip Notes" {
		t.Errorf("expected title %q, got %q", "Trip Notes", doc.Title)
	}

	want := []*Entry{
		{Text: "Intro text here."},
		{
			Title: "Day One",
			Text:  "Line one\nLine two\n\nSee <a href=\"http://example.com/a\">example.com/a</a> now.",
		},
	}
	if diff := cmp.Diff(want, doc.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<p>Just text</p>"), "bare.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "bare" {
		t.Errorf("expected title %q, got %q", "bare", doc.Title)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Text != "Just text" {
		t.Errorf("unexpected entries: %+v", doc.Entries)
	}
}
