// Package pattern holds the recognizers that classify spans of story and
// caption text. Every function is pure and expects line endings already
// normalized to "\n".
package pattern

import (
	"strings"
	"unicode/utf8"
)

// Superscripts lists the footnote digits in numeric order.
const Superscripts = "⁰¹²³⁴⁵⁶⁷⁸⁹"

// IndentMarker is what authors type to indent a line of verse one tab stop.
const IndentMarker = "· · "

// Span is the byte range [Start, End) of a match within the scanned text.
type Span struct {
	Start, End int
}

// Match locates a recognized region. Span covers everything the recognizer
// consumed, including surrounding line breaks. Body is the content proper.
type Match struct {
	Span
	Body Span
}

// BodyText returns the body of m within text.
func (m Match) BodyText(text string) string {
	return text[m.Body.Start:m.Body.End]
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeNewlines converts CRLF and bare CR line endings to LF.
func NormalizeNewlines(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	return newlines.Replace(text)
}

// IsSuperscript reports whether r is a superscript digit.
func IsSuperscript(r rune) bool {
	return strings.ContainsRune(Superscripts, r)
}

// SuperscriptValue returns the numeric value of a superscript digit, or -1.
func SuperscriptValue(r rune) int {
	i := 0
	for _, s := range Superscripts {
		if s == r {
			return i
		}
		i++
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func skipNewlines(text string, i int) int {
	for i < len(text) && text[i] == '\n' {
		i++
	}
	return i
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
