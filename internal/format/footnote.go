package format

import (
	"strings"

	"github.com/trailimage/storyfmt/internal/pattern"
	"github.com/trailimage/storyfmt/internal/segment"
)

// Footnote is one note from the footnote block. A credit note is written
// with a leading asterisk and is listed first, numbered zero.
type Footnote struct {
	Credit bool
	Text   string
}

// ParseFootnotes reads the lines below the underscore rule. Blank lines are
// skipped and superscript markers removed. The first credit note found is
// moved to the front.
func ParseFootnotes(body string) []Footnote {
	var notes []Footnote
	credit := -1
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if credit < 0 && strings.HasPrefix(line, "*") {
			credit = len(notes)
			notes = append(notes, Footnote{Credit: true, Text: strings.TrimSpace(pattern.StripMarkers(strings.TrimPrefix(line, "*")))})
			continue
		}
		notes = append(notes, Footnote{Text: strings.TrimSpace(pattern.StripMarkers(line))})
	}
	if credit > 0 {
		c := notes[credit]
		copy(notes[1:credit+1], notes[:credit])
		notes[0] = c
	}
	return notes
}

func (f *Formatter) renderFootnotes(notes []Footnote) string {
	if len(notes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ol class="footnotes"`)
	if notes[0].Credit {
		b.WriteString(` start="0"`)
	}
	b.WriteString(">")
	for _, n := range notes {
		if n.Credit {
			b.WriteString(`<li class="credit">` + IconTag(f.icons.Credit))
		} else {
			b.WriteString("<li>")
		}
		b.WriteString("<span>" + n.Text + "</span></li>")
	}
	b.WriteString("</ol>")
	return b.String()
}

// extractFootnotes removes the footnote block and returns it rendered.
func (f *Formatter) extractFootnotes(text string) (string, *segment.Segment) {
	m, ok := pattern.FootnoteBlock(text)
	if !ok {
		return text, nil
	}
	rest := text[:m.Start]
	html := f.renderFootnotes(ParseFootnotes(m.BodyText(text)))
	if html == "" {
		return rest, nil
	}
	return rest, &segment.Segment{Kind: segment.Footnotes, HTML: html}
}
