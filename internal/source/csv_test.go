package source

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCSVParser(t *testing.T) {
	input := "id,caption\na1,\"First line\r\nsecond line\"\na2,\na3,Third\n"

	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "batch.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []*Entry{
		{Title: "a1", Text: "First line\nsecond line", Page: 2},
		{Title: "a3", Text: "Third", Page: 4},
	}
	if diff := cmp.Diff(want, doc.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVParser_NoTextColumn(t *testing.T) {
	p := &CSVParser{}
	_, err := p.Parse(strings.NewReader("id,author\n1,me\n"), "bad.csv")
	if err == nil {
		t.Fatal("expected error for missing text column")
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader("title,story\n"), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(doc.Entries))
	}
}
