package pattern

import (
	"regexp"
	"strings"
)

var (
	anchorTag     = regexp.MustCompile(`(?i)<a href=["'](https?://)?([^"']+)["'][^>]*>([^<]*)</a>`)
	truncatedLink = regexp.MustCompile(`(?i)<a href=["']([^"']+)["']([^>]*)>([^<]*)</a>(\([\w/.\-%)(]+)`)
	ellipsisLink  = regexp.MustCompile(`(?i)<a href=["'](https?://)?([^/"']+)([^"']+)["'][^>]*>([^<]+)</a>`)
)

// Link is an anchor whose visible text repeats its own address.
type Link struct {
	Span
	Protocol string // "http://", "https://" or empty
	URL      string // address without protocol
}

// SelfReferentialLinks finds anchors whose text equals the href, with or
// without its protocol. Comparison ignores case.
func SelfReferentialLinks(text string) []Link {
	var links []Link
	for _, m := range anchorTag.FindAllStringSubmatchIndex(text, -1) {
		proto, url, label := group(text, m, 1), group(text, m, 2), group(text, m, 3)
		if !strings.EqualFold(label, url) && !strings.EqualFold(label, proto+url) {
			continue
		}
		links = append(links, Link{Span: Span{m[0], m[1]}, Protocol: proto, URL: url})
	}
	return links
}

// TruncatedLink is an anchor closed too early by a provider that stops URLs
// at an opening parenthesis. Tail is the part of the address left outside.
type TruncatedLink struct {
	Span
	Href  string
	Attrs string
	Text  string
	Tail  string
}

// TruncatedLinks finds anchors immediately followed by a parenthesized URL
// remainder.
func TruncatedLinks(text string) []TruncatedLink {
	var links []TruncatedLink
	for _, m := range truncatedLink.FindAllStringSubmatchIndex(text, -1) {
		links = append(links, TruncatedLink{
			Span:  Span{m[0], m[1]},
			Href:  group(text, m, 1),
			Attrs: group(text, m, 2),
			Text:  group(text, m, 3),
			Tail:  group(text, m, 4),
		})
	}
	return links
}

// EllipsisLink is an anchor whose text is its own address cut short with
// "...".
type EllipsisLink struct {
	Span
	Protocol string
	Domain   string
	Path     string
}

// EllipsisLinks finds anchors whose text starts with the link domain and
// ends with three periods.
func EllipsisLinks(text string) []EllipsisLink {
	var links []EllipsisLink
	for _, m := range ellipsisLink.FindAllStringSubmatchIndex(text, -1) {
		domain, label := group(text, m, 2), group(text, m, 4)
		if !strings.HasPrefix(strings.ToLower(label), strings.ToLower(domain)) || !strings.HasSuffix(label, "...") {
			continue
		}
		links = append(links, EllipsisLink{
			Span:     Span{m[0], m[1]},
			Protocol: group(text, m, 1),
			Domain:   domain,
			Path:     group(text, m, 3),
		})
	}
	return links
}

func group(text string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}
