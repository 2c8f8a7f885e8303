// Package typography converts typewriter punctuation to typographic forms.
// Markup is left alone so attribute quotes survive.
package typography

import (
	"regexp"
	"strings"
)

var (
	rightSingle = regexp.MustCompile(`(\w)'`)
	leftSingle  = regexp.MustCompile(`\B'(\w)`)
	rightDouble = regexp.MustCompile(`([\w,.!?])(?:"|&quot;)`)
	leftDouble  = regexp.MustCompile(`(?:"|&quot;)(\w)`)

	dashes = strings.NewReplacer("--", "—", "...", "…")
)

// Normalize curls quotes, converts double hyphens to an em dash and three
// periods to an ellipsis in the text between tags.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for text != "" {
		open := strings.IndexByte(text, '<')
		if open < 0 {
			b.WriteString(normalizeText(text))
			break
		}
		b.WriteString(normalizeText(text[:open]))
		text = text[open:]
		end := strings.IndexByte(text, '>')
		if end < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:end+1])
		text = text[end+1:]
	}
	return b.String()
}

func normalizeText(s string) string {
	if s == "" {
		return s
	}
	s = rightSingle.ReplaceAllString(s, "$1’")
	s = leftSingle.ReplaceAllString(s, "‘$1")
	s = rightDouble.ReplaceAllString(s, "$1”")
	s = leftDouble.ReplaceAllString(s, "“$1")
	return dashes.Replace(s)
}
