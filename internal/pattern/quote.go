package pattern

import (
	"regexp"
	"strings"
)

const (
	quipMin = 4
	quipMax = 80
)

// A long quotation standing on its own lines. Authors mark these only with
// curly quotes, so length is what separates them from ordinary dialogue.
var blockQuote = regexp.MustCompile(`(?:^|\n)(“[^”]{200,}”[⁰¹²³⁴⁵⁶⁷⁸⁹]*)\s*(?:\n|$)`)

// BlockQuote finds the first quoted passage of at least 200 characters that
// starts at the beginning of text or of a line and ends a line. The match
// consumes the line break before it and all whitespace after it.
func BlockQuote(text string) (Match, bool) {
	m := blockQuote.FindStringSubmatchIndex(text)
	if m == nil {
		return Match{}, false
	}
	return Match{Span: Span{m[0], m[1]}, Body: Span{m[2], m[3]}}, true
}

// BlockQuotes returns every quoted passage, left to right. The text after a
// match starts a fresh line, so quotes separated by a single break are all
// found.
func BlockQuotes(text string) []Match {
	var out []Match
	for offset := 0; offset < len(text); {
		m, ok := BlockQuote(text[offset:])
		if !ok {
			break
		}
		out = append(out, Match{
			Span: Span{m.Start + offset, m.End + offset},
			Body: Span{m.Body.Start + offset, m.Body.End + offset},
		})
		offset += m.End
	}
	return out
}

// Quip reports whether a paragraph is a short line of dialogue: it opens
// with a curly quote, closes that quote somewhere after, holds no markup and
// runs 4 to 80 characters past the opening quote.
func Quip(paragraph string) bool {
	if !strings.HasPrefix(paragraph, "“") || strings.ContainsRune(paragraph, '<') {
		return false
	}
	rest := paragraph[len("“"):]
	if n := runeLen(rest); n < quipMin || n > quipMax {
		return false
	}
	return strings.Contains(rest, "”")
}
