package doc

import "strings"

// PlainText returns the run's text. Tabs render as "\t" and breaks as "\n".
func (r *Run) PlainText() string {
	var sb strings.Builder
	for _, c := range r.Content {
		switch ic := c.(type) {
		case *Text:
			sb.WriteString(ic.Value)
		case *Tab:
			sb.WriteByte('\t')
		case *Break:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PlainText returns the paragraph's text in the accepted-changes view:
// insertions and move destinations contribute, deletions and move sources do
// not, range markers contribute nothing.
func (p *Paragraph) PlainText() string {
	var sb strings.Builder
	writeContentText(&sb, p.Content)
	return sb.String()
}

func writeContentText(sb *strings.Builder, content []ParagraphContent) {
	for _, c := range content {
		switch pc := c.(type) {
		case *Run:
			sb.WriteString(pc.PlainText())
		case *Hyperlink:
			for _, r := range pc.Runs {
				sb.WriteString(r.PlainText())
			}
		case *Insertion:
			writeContentText(sb, pc.Content)
		case *MoveTo:
			writeContentText(sb, pc.Content)
		}
	}
}

// PlainText returns the table's text: cell paragraphs joined by newlines in
// pre-order.
func (t *Table) PlainText() string {
	leaves := t.LeafParagraphs()
	parts := make([]string, len(leaves))
	for i, p := range leaves {
		parts[i] = p.PlainText()
	}
	return strings.Join(parts, "\n")
}

// PlainText returns the document's text: block texts joined by newlines.
func (d *Document) PlainText() string {
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		switch blk := b.(type) {
		case *Paragraph:
			parts = append(parts, blk.PlainText())
		case *Table:
			parts = append(parts, blk.PlainText())
		}
	}
	return strings.Join(parts, "\n")
}
