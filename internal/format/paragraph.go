package format

import (
	"regexp"
	"strings"

	"github.com/trailimage/storyfmt/internal/pattern"
	"github.com/trailimage/storyfmt/internal/segment"
)

var blankLine = regexp.MustCompile(`\n(?:[ \t]*\n)+`)

// paragraphs splits text on blank lines. Single line breaks stay inside the
// paragraph.
func paragraphs(text string) []string {
	var out []string
	for _, p := range blankLine.Split(text, -1) {
		p = strings.Trim(p, "\n")
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// assemble turns prose segments into paragraphs. The first paragraph of the
// document may be a quip, and the paragraph after a verse or block quote is
// marked first.
func assemble(segs []segment.Segment) []segment.Segment {
	var out []segment.Segment
	first := false
	for _, s := range segs {
		if s.Kind != segment.Text {
			out = append(out, s)
			first = s.Kind == segment.Verse || s.Kind == segment.Blockquote
			continue
		}
		for _, p := range paragraphs(s.Text) {
			if len(out) == 0 && pattern.Quip(p) {
				out = append(out, segment.Segment{Kind: segment.Quip, Text: p})
			} else {
				out = append(out, segment.Segment{Kind: segment.Paragraph, Text: p, First: first})
			}
			first = false
		}
	}
	return out
}

// Render writes a classified document as HTML.
func Render(doc *segment.Document) string {
	var b strings.Builder
	for _, s := range doc.Segments {
		switch s.Kind {
		case segment.Paragraph, segment.Text:
			if s.First {
				b.WriteString(`<p class="first">`)
			} else {
				b.WriteString("<p>")
			}
			b.WriteString(superscript(s.Text, true))
			b.WriteString("</p>")
		case segment.Quip:
			b.WriteString(`<p class="quip">` + superscript(s.Text, true) + "</p>")
		case segment.Blockquote:
			b.WriteString("<blockquote>")
			for _, p := range s.Parts {
				b.WriteString("<p>" + superscript(p, true) + "</p>")
			}
			b.WriteString("</blockquote>")
		default:
			b.WriteString(s.HTML)
		}
	}
	return b.String()
}

// superscript wraps footnote markers in <sup>. Leading should be true when
// the text follows an opening tag.
func superscript(text string, leading bool) string {
	spans := pattern.FootnoteMarkers(text, leading)
	reps := make([]replacement, len(spans))
	for i, s := range spans {
		reps[i] = replacement{s, "<sup>" + text[s.Start:s.End] + "</sup>"}
	}
	return splice(text, reps)
}
