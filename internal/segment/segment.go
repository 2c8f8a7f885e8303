package segment

// Kind classifies a span of a story or caption.
type Kind int

const (
	Text       Kind = iota // prose not yet split into paragraphs
	Paragraph              // ordinary <p>
	Quip                   // short opening line of dialogue
	Verse                  // poem embedded in prose
	Blockquote             // long quoted passage
	Haiku                  // three-line haiku
	Poem                   // whole-document poem
	Footnotes              // trailing footnote list
)

var kindNames = [...]string{"text", "paragraph", "quip", "verse", "blockquote", "haiku", "poem", "footnotes"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Segment is one classified span of a document.
type Segment struct {
	Kind  Kind
	Text  string   // Source text for Text, Paragraph and Quip
	Parts []string // Paragraphs of a Blockquote
	HTML  string   // Pre-rendered markup for Verse, Haiku, Poem and Footnotes
	First bool     // Paragraph directly follows a pulled-out block
}

// Prerendered reports whether the segment carries its own markup.
func (s Segment) Prerendered() bool {
	switch s.Kind {
	case Verse, Haiku, Poem, Footnotes:
		return true
	}
	return false
}

// Document is an ordered list of segments. Segments never overlap and appear
// in source order, except Footnotes which is always last.
type Document struct {
	Segments []Segment
}

// Append adds segments to the end of the document.
func (d *Document) Append(segs ...Segment) {
	d.Segments = append(d.Segments, segs...)
}

// Unresolved returns the indexes of pre-rendered segments with no markup.
// A well-formed document has none.
func (d *Document) Unresolved() []int {
	var idx []int
	for i, s := range d.Segments {
		if s.Prerendered() && s.HTML == "" {
			idx = append(idx, i)
		}
	}
	return idx
}
