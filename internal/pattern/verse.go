package pattern

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	verseLineMin  = 4
	verseLineMax  = 80
	verseMinLines = 3
)

var (
	// A whole-document poem is wrapped in lines holding a single dash.
	wholeVerse = regexp.MustCompile(`^-\n*(?:[^\n]{3,100}\n+){3,}-\n*$`)
	verseOpen  = regexp.MustCompile(`^-\n+`)
	verseClose = regexp.MustCompile(`\n+-\n*$`)

	wholeHaiku   = regexp.MustCompile(`^([ \w]{5,100})\n+([ \w]{5,100})\n+([ \w]{5,100})$`)
	leadingHaiku = regexp.MustCompile(`^([ \w]{5,100})\n+([ \w]{5,100})\n+([ \w]{5,100})(?:(?:\n\n)+|$)`)
)

// Haiku is three recognized haiku lines. End is the byte offset just past the
// haiku and the blank lines following it.
type Haiku struct {
	Lines [3]string
	End   int
}

// WholeDocumentVerse reports whether text is a dash-delimited poem of at
// least three lines.
func WholeDocumentVerse(text string) bool {
	return wholeVerse.MatchString(text)
}

// StripVerseDelimiter removes the opening and closing dash lines.
func StripVerseDelimiter(text string) string {
	text = verseOpen.ReplaceAllString(text, "")
	return verseClose.ReplaceAllString(text, "")
}

// WholeDocumentHaiku matches text that is exactly three haiku lines.
func WholeDocumentHaiku(text string) (Haiku, bool) {
	return haiku(wholeHaiku, text)
}

// LeadingHaiku matches three haiku lines at the start of text followed by a
// blank line or the end of text.
func LeadingHaiku(text string) (Haiku, bool) {
	return haiku(leadingHaiku, text)
}

func haiku(re *regexp.Regexp, text string) (Haiku, bool) {
	m := re.FindStringSubmatchIndex(text)
	if m == nil {
		return Haiku{}, false
	}
	return Haiku{
		Lines: [3]string{text[m[2]:m[3]], text[m[4]:m[5]], text[m[6]:m[7]]},
		End:   m[1],
	}, true
}

// EmbeddedVerse finds the leftmost run of at least three lines, each 4 to 80
// characters, beginning at the start of a line. Blank lines between stanzas
// belong to the run. Lines that read as interrupted dialogue, a character
// followed by closing punctuation and quote then anything but a footnote
// digit, end the run.
//
// The match consumes the line breaks before and after the run.
func EmbeddedVerse(text string) (Match, bool) {
	p := 0
	for {
		body := skipNewlines(text, p)
		if body < len(text) {
			if end, lines := verseRun(text, body); lines >= verseMinLines {
				return Match{Span: Span{p, end}, Body: Span{body, end}}, true
			}
		}
		next := strings.IndexByte(text[body:], '\n')
		if next < 0 {
			return Match{}, false
		}
		p = body + next
	}
}

// verseRun counts consecutive verse lines starting at i and returns the
// offset after the last one and its trailing line breaks.
func verseRun(text string, i int) (end, lines int) {
	end = i
	for i < len(text) {
		lineEnd := strings.IndexByte(text[i:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += i
		}
		if !verseLine(text, i, lineEnd) {
			break
		}
		lines++
		end = skipNewlines(text, lineEnd)
		i = end
	}
	return end, lines
}

func verseLine(text string, start, end int) bool {
	n := runeLen(text[start:end])
	if n < verseLineMin || n > verseLineMax {
		return false
	}
	for q := start + 1; q < end; q++ {
		if dialogueBreak(text, q) {
			return false
		}
	}
	return true
}

// dialogueBreak reports whether text[q:] begins with closing punctuation and
// a closing quote followed by something other than a footnote digit.
func dialogueBreak(text string, q int) bool {
	switch text[q] {
	case '.', ',', '!', '?':
	default:
		return false
	}
	rest := text[q+1:]
	if !strings.HasPrefix(rest, "”") {
		return false
	}
	r, size := utf8.DecodeRuneInString(rest[len("”"):])
	return size > 0 && !IsSuperscript(r)
}
