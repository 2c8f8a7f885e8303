package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/trailimage/storyfmt/internal/pattern"
)

// Column names accepted for the story body and its title, in priority order.
var (
	textColumns  = []string{"text", "story", "caption", "body"}
	titleColumns = []string{"title", "id", "name", "slug"}
)

// CSVParser handles batch files: a header row, then one entry per row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	textCol := findColumn(headers, textColumns)
	if textCol < 0 {
		return nil, fmt.Errorf("parse csv: no text column (want one of %s)", strings.Join(textColumns, ", "))
	}
	titleCol := findColumn(headers, titleColumns)

	for i, row := range records[1:] {
		if textCol >= len(row) || strings.TrimSpace(row[textCol]) == "" {
			continue
		}
		entry := &Entry{
			Text: pattern.NormalizeNewlines(row[textCol]),
			Page: i + 2, // 1-indexed, skip header
		}
		if titleCol >= 0 && titleCol < len(row) {
			entry.Title = strings.TrimSpace(row[titleCol])
		}
		doc.Entries = append(doc.Entries, entry)
	}
	return doc, nil
}

func findColumn(headers, names []string) int {
	for _, name := range names {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}
