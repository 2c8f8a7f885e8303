// Package source reads story and caption text out of uploaded files.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for files with no matching parser.
var ErrUnsupported = errors.New("unsupported file extension")

// Document is a parsed file holding one or more entries.
type Document struct {
	Title   string
	Entries []*Entry
}

// Entry is one story or caption body in author text form: paragraphs split
// by blank lines and verse lines by single line breaks.
type Entry struct {
	Title string // Heading, row title or page label (may be empty)
	Text  string
	Page  int // Source page or row (0 if N/A)
}

// Parser converts raw file bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sections groups paragraphs under the most recent heading. Each heading
// starts a new entry; text before the first heading forms an untitled one.
type sections struct {
	doc   *Document
	title string
	paras []string
}

func newSections(doc *Document) *sections {
	return &sections{doc: doc}
}

func (s *sections) heading(title string) {
	s.flush()
	s.title = title
}

func (s *sections) paragraph(text string) {
	if text = strings.TrimSpace(text); text != "" {
		s.paras = append(s.paras, text)
	}
}

func (s *sections) flush() {
	if len(s.paras) > 0 {
		s.doc.Entries = append(s.doc.Entries, &Entry{
			Title: s.title,
			Text:  strings.Join(s.paras, "\n\n"),
		})
	}
	s.title = ""
	s.paras = nil
}
