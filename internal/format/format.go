// Package format renders author-written story and caption text as HTML.
//
// Text is classified into segments in a fixed order: footnotes first, then
// embedded verse, then long block quotes. Whatever prose remains is split
// into paragraphs. A Formatter never keeps state between calls and is safe
// for concurrent use.
package format

import (
	"strings"

	"github.com/trailimage/storyfmt/internal/pattern"
	"github.com/trailimage/storyfmt/internal/segment"
)

// Icons names the Material Icons glyphs used for decoration.
type Icons struct {
	Haiku  string `yaml:"haiku"`
	Credit string `yaml:"credit"`
}

// DefaultIcons returns the glyphs used when none are configured.
func DefaultIcons() Icons {
	return Icons{Haiku: "spa", Credit: "star"}
}

// Options configures a Formatter.
type Options struct {
	Icons Icons

	// LinkRepair fixes anchors mangled by the text source. Nil uses RepairLinks.
	LinkRepair func(string) string

	// Typography converts straight quotes and the like. Nil leaves text as is,
	// which assumes the source already did it.
	Typography func(string) string
}

// Formatter converts stories and captions to HTML.
type Formatter struct {
	icons      Icons
	repair     func(string) string
	typography func(string) string
}

// New returns a Formatter. Empty icon names fall back to DefaultIcons.
func New(opts Options) *Formatter {
	def := DefaultIcons()
	if opts.Icons.Haiku == "" {
		opts.Icons.Haiku = def.Haiku
	}
	if opts.Icons.Credit == "" {
		opts.Icons.Credit = def.Credit
	}
	if opts.LinkRepair == nil {
		opts.LinkRepair = RepairLinks
	}
	return &Formatter{
		icons:      opts.Icons,
		repair:     opts.LinkRepair,
		typography: opts.Typography,
	}
}

// Icons returns the configured glyphs.
func (f *Formatter) Icons() Icons { return f.icons }

// IconTag renders a Material Icons ligature.
func IconTag(name string) string {
	return `<i class="material-icons ` + name + `">` + name + `</i>`
}

// Story renders a full story. A story may be a dash-delimited poem, may open
// with a haiku, or is otherwise treated as a caption. Empty text is returned
// unchanged.
func (f *Formatter) Story(text string) string {
	if text == "" {
		return text
	}
	return Render(f.StoryDocument(text))
}

// StoryDocument classifies a story without rendering it.
func (f *Formatter) StoryDocument(text string) *segment.Document {
	text = pattern.NormalizeNewlines(text)

	if pattern.WholeDocumentVerse(text) {
		text = pattern.StripVerseDelimiter(text)
		if h, ok := pattern.WholeDocumentHaiku(text); ok {
			doc := &segment.Document{}
			doc.Append(f.haiku(h))
			return doc
		}
		doc := &segment.Document{}
		doc.Append(segment.Segment{Kind: segment.Poem, HTML: renderPoem(text)})
		return doc
	}

	if h, ok := pattern.LeadingHaiku(text); ok {
		doc := f.CaptionDocument(text[h.End:])
		doc.Segments = append([]segment.Segment{f.haiku(h)}, doc.Segments...)
		return doc
	}

	return f.CaptionDocument(text)
}

// Caption renders a caption: prose with optional embedded verse, block
// quotes and a trailing footnote list.
func (f *Formatter) Caption(text string) string {
	if text == "" {
		return ""
	}
	return Render(f.CaptionDocument(text))
}

// CaptionDocument classifies a caption without rendering it.
func (f *Formatter) CaptionDocument(text string) *segment.Document {
	doc := &segment.Document{}
	if text == "" {
		return doc
	}
	text = pattern.NormalizeNewlines(text)
	text = f.repair(text)
	text = ShortenLinks(text)
	if f.typography != nil {
		text = f.typography(text)
	}

	text, notes := f.extractFootnotes(text)
	segs := extractVerses(text)
	segs = extractQuotes(segs)
	doc.Append(assemble(segs)...)
	if notes != nil {
		doc.Append(*notes)
	}
	return doc
}

func (f *Formatter) haiku(h pattern.Haiku) segment.Segment {
	html := `<p class="haiku">` + strings.Join(h.Lines[:], "<br/>") + IconTag(f.icons.Haiku) + `</p>`
	return segment.Segment{Kind: segment.Haiku, HTML: html}
}

func renderPoem(text string) string {
	return `<p class="poem">` + indent(strings.ReplaceAll(text, "\n", "<br/>")) + `</p>`
}

func indent(html string) string {
	return strings.ReplaceAll(html, pattern.IndentMarker, `<span class="tab"></span>`)
}
