package source

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings start new
// entries. Links are kept as anchor tags so the formatter can shorten them.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Title: titleFromFilename(filename)}
	s := newSections(doc)

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			s.heading(inlineMarkdown(node, src, false))
		case *ast.ThematicBreak:
			// Authors separate footnotes with a rule.
			s.paragraph("___")
		case *ast.List:
			s.paragraph(listMarkdown(node, src))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			s.paragraph(blockLines(n, src))
		case *ast.Blockquote:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				s.paragraph(inlineMarkdown(c, src, true))
			}
		default:
			s.paragraph(inlineMarkdown(n, src, true))
		}
	}
	s.flush()

	return doc, nil
}

// listMarkdown writes each item on its own line. Bullet markers are kept so
// a "* credit" footnote survives being parsed as a list.
func listMarkdown(list *ast.List, src []byte) string {
	var lines []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if t := inlineMarkdown(c, src, true); t != "" {
				parts = append(parts, t)
			}
		}
		line := strings.Join(parts, " ")
		if !list.IsOrdered() {
			line = string(list.Marker) + " " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func blockLines(n ast.Node, src []byte) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// inlineMarkdown renders the inline content of a node as author text. Line
// breaks are kept. With links set, links become anchor tags.
func inlineMarkdown(n ast.Node, src []byte, links bool) string {
	var buf strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				buf.Write(node.Segment.Value(src))
				if node.HardLineBreak() || node.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			case *ast.String:
				buf.Write(node.Value)
			case *ast.Link:
				if !links {
					walk(node)
					continue
				}
				buf.WriteString(`<a href="` + string(node.Destination) + `">`)
				walk(node)
				buf.WriteString("</a>")
			case *ast.AutoLink:
				url := string(node.URL(src))
				if links {
					buf.WriteString(`<a href="` + url + `">` + string(node.Label(src)) + `</a>`)
				} else {
					buf.WriteString(url)
				}
			case *ast.RawHTML:
				for i := 0; i < node.Segments.Len(); i++ {
					seg := node.Segments.At(i)
					buf.Write(seg.Value(src))
				}
			case *ast.Image:
				// Images have no place in a caption.
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
