package format

import (
	"strings"

	"github.com/trailimage/storyfmt/internal/pattern"
	"github.com/trailimage/storyfmt/internal/segment"
)

var curlyQuotes = strings.NewReplacer("“", "", "”", "")

// extractQuotes pulls long quotations out of the prose segments. Each prose
// segment starts on a fresh line, so a quote may open it.
func extractQuotes(segs []segment.Segment) []segment.Segment {
	var out []segment.Segment
	for _, s := range segs {
		if s.Kind != segment.Text {
			out = append(out, s)
			continue
		}
		prev := 0
		for _, m := range pattern.BlockQuotes(s.Text) {
			if m.Start > prev {
				out = append(out, segment.Segment{Kind: segment.Text, Text: s.Text[prev:m.Start]})
			}
			out = append(out, segment.Segment{
				Kind:  segment.Blockquote,
				Parts: paragraphs(curlyQuotes.Replace(m.BodyText(s.Text))),
			})
			prev = m.End
		}
		if prev < len(s.Text) {
			out = append(out, segment.Segment{Kind: segment.Text, Text: s.Text[prev:]})
		}
	}
	return out
}
