package format

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/trailimage/storyfmt/internal/pattern"
)

var (
	queryString = regexp.MustCompile(`\?.*$`)
	urlAnchor   = regexp.MustCompile(`#\w+$`)
	fileExt     = regexp.MustCompile(`\.[A-Za-z0-9]{1,5}$`)
)

type replacement struct {
	pattern.Span
	with string
}

// splice replaces ordered, non-overlapping spans of text.
func splice(text string, reps []replacement) string {
	if len(reps) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, r := range reps {
		b.WriteString(text[last:r.Start])
		b.WriteString(r.with)
		last = r.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// RepairLinks fixes two anchor shapes produced by photo providers: links
// closed before a parenthesis in the address, and link text cut short with
// an ellipsis.
func RepairLinks(text string) string {
	var reps []replacement
	for _, l := range pattern.TruncatedLinks(text) {
		reps = append(reps, replacement{l.Span,
			`<a href="` + l.Href + l.Tail + `"` + l.Attrs + `>` + l.Text + l.Tail + `</a>`})
	}
	text = splice(text, reps)

	reps = reps[:0]
	for _, l := range pattern.EllipsisLinks(text) {
		reps = append(reps, replacement{l.Span,
			`<a href="` + l.Protocol + l.Domain + l.Path + `">` + l.Domain + l.Path + `</a>`})
	}
	return splice(text, reps)
}

// ShortenLinks replaces the text of links that display their own address
// with the domain and last page name.
func ShortenLinks(text string) string {
	var reps []replacement
	for _, l := range pattern.SelfReferentialLinks(text) {
		proto := l.Protocol
		if proto == "" {
			proto = "http://"
		}
		reps = append(reps, replacement{l.Span, `<a href="` + proto + l.URL + `">` + LinkText(l.URL) + `</a>`})
	}
	return splice(text, reps)
}

// LinkText shortens an address without protocol to its domain and final
// meaningful path segment, eliding anything in between.
//
//	www.example.com/a/b/page.html?x=1 -> example.com/&hellip;/page
func LinkText(address string) string {
	parts := strings.Split(address, "/")
	domain := strings.TrimPrefix(parts[0], "www.")

	last := len(parts) - 1
	if strings.HasSuffix(address, "/") {
		last--
	}
	if last > 0 && (strings.HasPrefix(parts[last], "?") || strings.HasPrefix(parts[last], "#")) {
		last--
	}
	if last <= 0 {
		return domain
	}

	page := queryString.ReplaceAllString(parts[last], "")
	page = urlAnchor.ReplaceAllString(page, "")
	page = fileExt.ReplaceAllString(page, "")
	if p, err := url.PathUnescape(page); err == nil {
		page = p
	}

	middle := "/"
	if last > 1 {
		middle = "/&hellip;/"
	}
	return domain + middle + page
}
