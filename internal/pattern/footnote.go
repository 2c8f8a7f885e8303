package pattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Footnotes trail the text below a line of exactly three underscores.
var footnoteBlock = regexp.MustCompile(`(?:^|\n+)___\n+((?s:.+))$`)

// FootnoteBlock locates the footnote section. The match runs from the line
// breaks before the underscore line to the end of text.
func FootnoteBlock(text string) (Match, bool) {
	m := footnoteBlock.FindStringSubmatchIndex(text)
	if m == nil || strings.TrimSpace(text[m[2]:m[3]]) == "" {
		return Match{}, false
	}
	return Match{Span: Span{m[0], m[1]}, Body: Span{m[2], m[3]}}, true
}

// FootnoteMarkers returns the spans of superscript digit runs that follow a
// character other than a slash or whitespace and are not followed by a word
// character. When leading is true the start of text counts as such a
// character, as it does for text placed right after an opening tag.
func FootnoteMarkers(text string, leading bool) []Span {
	var spans []Span
	prevOK := leading
	for i := 0; i < len(text); {
		if prevOK {
			if end := markerEnd(text, i); end > i {
				spans = append(spans, Span{i, end})
				i = end
				prevOK = false
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		prevOK = r != '/' && !unicode.IsSpace(r)
		i += size
	}
	return spans
}

// markerEnd returns the end of the usable superscript run starting at i, or
// i when there is none. A run followed by a word character gives up its last
// digit so the remainder is followed by a digit instead.
func markerEnd(text string, i int) int {
	j, n, last := i, 0, 0
	for j < len(text) {
		r, size := utf8.DecodeRuneInString(text[j:])
		if !IsSuperscript(r) {
			break
		}
		j += size
		last = size
		n++
	}
	if n == 0 {
		return i
	}
	if j < len(text) && isWordByte(text[j]) {
		if n < 2 {
			return i
		}
		return j - last
	}
	return j
}

// StripMarkers removes superscript digit runs and the spaces after them.
func StripMarkers(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	skipSpace := false
	for _, r := range text {
		switch {
		case IsSuperscript(r):
			skipSpace = true
		case skipSpace && (r == ' ' || r == '\t'):
		default:
			skipSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
