package format

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/trailimage/storyfmt/internal/pattern"
	"github.com/trailimage/storyfmt/internal/segment"
)

var (
	stanzaBreak = regexp.MustCompile(`\n{2,}`)
	lineQuote   = regexp.MustCompile(`(?m)^ *“`)
)

// extractVerses splits text around every embedded poem.
func extractVerses(text string) []segment.Segment {
	var segs []segment.Segment
	for {
		m, ok := pattern.EmbeddedVerse(text)
		if !ok {
			break
		}
		if m.Start > 0 {
			segs = append(segs, segment.Segment{Kind: segment.Text, Text: text[:m.Start]})
		}
		segs = append(segs, segment.Segment{Kind: segment.Verse, HTML: renderVerse(m.BodyText(text))})
		text = text[m.End:]
	}
	if text != "" {
		segs = append(segs, segment.Segment{Kind: segment.Text, Text: text})
	}
	return segs
}

// renderVerse formats a poem body. Stanzas become paragraphs and lines are
// joined with breaks.
func renderVerse(body string) string {
	if quotedVerse(body) {
		body = unquoteVerse(body)
	}
	body = strings.TrimRightFunc(body, unicode.IsSpace)

	stanzas := stanzaBreak.Split(body, -1)
	for i, s := range stanzas {
		stanzas[i] = strings.ReplaceAll(s, "\n", "<br/>")
	}
	html := indent(strings.Join(stanzas, "</p><p>"))
	html = superscript(html, false)
	return `<blockquote class="poem"><p>` + html + `</p></blockquote>`
}

// quotedVerse reports whether a poem is quoted as a whole: it opens with a
// curly quote and closes with one, ignoring a trailing footnote marker.
func quotedVerse(body string) bool {
	if !strings.HasPrefix(strings.TrimLeftFunc(body, unicode.IsSpace), "“") {
		return false
	}
	end := strings.TrimRightFunc(body, unicode.IsSpace)
	end = strings.TrimRightFunc(end, pattern.IsSuperscript)
	return strings.HasSuffix(end, "”")
}

// unquoteVerse drops the quote opening each stanza line and the final
// closing quote. Quoted poetry repeats the opening quote on every stanza.
func unquoteVerse(body string) string {
	body = lineQuote.ReplaceAllString(body, "")
	if i := strings.LastIndex(body, "”"); i >= 0 {
		body = body[:i] + body[i+len("”"):]
	}
	return body
}
