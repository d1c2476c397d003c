package doc

// Paragraph is an ordered sequence of paragraph content plus formatting.
type Paragraph struct {
	// StyleID is the paragraph style identifier (e.g., "Heading1").
	// It participates in the block anchor.
	StyleID string `json:"style_id,omitempty"`

	// Formatting contains the direct paragraph formatting.
	Formatting Properties `json:"formatting,omitempty"`

	// PropertyChanges records tracked formatting-only edits to this
	// paragraph. Normally zero or one entry.
	PropertyChanges []*ParagraphPropertyChange `json:"property_changes,omitempty"`

	// Content is the ordered paragraph content.
	Content []ParagraphContent `json:"content,omitempty"`
}

// ParagraphContent is a node that may appear inside a paragraph:
// *Run, *Hyperlink, *Insertion, *Deletion, *MoveFrom, *MoveTo,
// *MoveRangeStart or *MoveRangeEnd.
type ParagraphContent interface {
	isParagraphContent()
}

func (*Run) isParagraphContent()            {}
func (*Hyperlink) isParagraphContent()      {}
func (*Insertion) isParagraphContent()      {}
func (*Deletion) isParagraphContent()       {}
func (*MoveFrom) isParagraphContent()       {}
func (*MoveTo) isParagraphContent()         {}
func (*MoveRangeStart) isParagraphContent() {}
func (*MoveRangeEnd) isParagraphContent()   {}

// Run is an ordered sequence of inline content sharing one set of run
// formatting.
type Run struct {
	// Formatting contains the direct run formatting (bold, size, ...).
	Formatting Properties `json:"formatting,omitempty"`

	// PropertyChanges records tracked formatting-only edits to this run.
	PropertyChanges []*RunPropertyChange `json:"property_changes,omitempty"`

	// Content is the ordered inline content.
	Content []InlineContent `json:"content,omitempty"`
}

// NewTextRun returns a run holding a single text node.
func NewTextRun(text string, formatting Properties) *Run {
	r := &Run{Formatting: formatting}
	if text != "" {
		r.Content = []InlineContent{&Text{Value: text}}
	}
	return r
}

// InlineContent is a node that may appear inside a run:
// *Text, *Tab or *Break.
type InlineContent interface {
	isInlineContent()
}

func (*Text) isInlineContent()  {}
func (*Tab) isInlineContent()   {}
func (*Break) isInlineContent() {}

// Text is a literal text node.
type Text struct {
	Value string `json:"value"`
}

// Tab is a horizontal tab.
type Tab struct{}

// Break is an explicit line break within a paragraph.
type Break struct{}

// Hyperlink wraps a sequence of runs that link to a target.
type Hyperlink struct {
	// Target is the link destination (URL or internal bookmark).
	Target string `json:"target,omitempty"`

	// Runs contains the visible link content.
	Runs []*Run `json:"runs,omitempty"`
}
