package source

import (
	"errors"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"story.txt", "*source.TextParser"},
		{"story.MD", "*source.MarkdownParser"},
		{"story.markdown", "*source.MarkdownParser"},
		{"batch.csv", "*source.CSVParser"},
		{"page.htm", "*source.HTMLParser"},
		{"book.pdf", "*source.PDFParser"},
		{"draft.docx", "*source.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", tt.filename, err)
			continue
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("photo.jpg")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if IsSupportedExtension("photo.jpg") {
		t.Error("jpg should not be supported")
	}
	if !IsSupportedExtension("Notes.TXT") {
		t.Error("extension check should ignore case")
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *TextParser:
		return "*source.TextParser"
	case *MarkdownParser:
		return "*source.MarkdownParser"
	case *CSVParser:
		return "*source.CSVParser"
	case *HTMLParser:
		return "*source.HTMLParser"
	case *PDFParser:
		return "*source.PDFParser"
	case *DOCXParser:
		return "*source.DOCXParser"
	}
	return "unknown"
}
