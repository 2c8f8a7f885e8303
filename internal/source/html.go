package source

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	htmlSpace     = regexp.MustCompile(`[ \t\r\n\f]+`)
	spaceAtBreaks = regexp.MustCompile(` *\n *`)
)

// HTMLParser handles HTML files. Headings start new entries; paragraphs,
// list items and preformatted blocks become paragraphs of the current one.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{Title: titleFromFilename(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}
	s := newSections(doc)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if headingLevel(n.DataAtom) > 0 {
				s.heading(inlineHTML(n, false))
				return
			}

			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Nav, atom.Footer, atom.Header:
				return
			case atom.P, atom.Li, atom.Td:
				s.paragraph(inlineHTML(n, true))
				return
			case atom.Pre:
				s.paragraph(textContent(n))
				return
			case atom.Hr:
				s.paragraph("___")
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(root, atom.Body); body != nil {
		walk(body)
	} else {
		walk(root)
	}
	s.flush()

	return doc, nil
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// inlineHTML flattens an element to author text. Runs of whitespace collapse
// as a browser would, <br> becomes a line break and, with links set, anchors
// are kept with only their href.
func inlineHTML(n *html.Node, links bool) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				buf.WriteString(htmlSpace.ReplaceAllString(c.Data, " "))
			case c.Type != html.ElementNode:
			case c.DataAtom == atom.Br:
				buf.WriteByte('\n')
			case c.DataAtom == atom.A && links && attr(c, "href") != "":
				buf.WriteString(`<a href="` + attr(c, "href") + `">`)
				walk(c)
				buf.WriteString("</a>")
			case c.DataAtom == atom.Script || c.DataAtom == atom.Style || c.DataAtom == atom.Img:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(spaceAtBreaks.ReplaceAllString(buf.String(), "\n"))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Trim(buf.String(), "\n")
}

func findTitle(n *html.Node) string {
	if t := findElement(n, atom.Title); t != nil {
		return strings.TrimSpace(textContent(t))
	}
	return ""
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
