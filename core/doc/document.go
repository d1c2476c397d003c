package doc

// Document is the top-level container for one document tree.
// The non-block fields form the metadata shell; the revision engine copies
// the shell of the current tree into its output unchanged.
type Document struct {
	// Title is the human-readable document title.
	Title string `json:"title,omitempty"`

	// Author is the document-level author (not the revision author).
	Author string `json:"author,omitempty"`

	// Language is the BCP-47 language tag (e.g., "en", "de").
	Language string `json:"language,omitempty"`

	// Attributes contains additional metadata as key-value pairs.
	Attributes map[string]string `json:"attributes,omitempty"`

	// Blocks contains the ordered top-level content.
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a top-level content node: a *Paragraph or a *Table.
type Block interface {
	isBlock()
}

func (*Paragraph) isBlock() {}
func (*Table) isBlock()     {}

// Shell returns a copy of the document with the same metadata but no blocks.
func (d *Document) Shell() *Document {
	out := &Document{
		Title:    d.Title,
		Author:   d.Author,
		Language: d.Language,
	}
	if len(d.Attributes) > 0 {
		out.Attributes = make(map[string]string, len(d.Attributes))
		for k, v := range d.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// Paragraphs returns all top-level paragraphs in order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Blocks {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}
