package source

import (
	"bufio"
	"io"
	"strings"

	"github.com/trailimage/storyfmt/internal/pattern"
)

// TextParser handles plain text files. The whole file is one entry.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &Document{Title: titleFromFilename(filename)}
	if len(paragraphs) > 0 {
		doc.Entries = []*Entry{{
			Text: pattern.NormalizeNewlines(strings.Join(paragraphs, "\n\n")),
		}}
	}
	return doc, nil
}
