package doc

// Clone returns a deep copy of the run.
func (r *Run) Clone() *Run {
	out := &Run{Formatting: r.Formatting.Clone()}
	for _, pc := range r.PropertyChanges {
		cp := *pc
		cp.Previous = pc.Previous.Clone()
		cp.Current = pc.Current.Clone()
		out.PropertyChanges = append(out.PropertyChanges, &cp)
	}
	for _, c := range r.Content {
		out.Content = append(out.Content, cloneInline(c))
	}
	return out
}

func cloneInline(c InlineContent) InlineContent {
	switch ic := c.(type) {
	case *Text:
		return &Text{Value: ic.Value}
	case *Tab:
		return &Tab{}
	case *Break:
		return &Break{}
	}
	return c
}

// Clone returns a deep copy of the hyperlink.
func (h *Hyperlink) Clone() *Hyperlink {
	out := &Hyperlink{Target: h.Target}
	for _, r := range h.Runs {
		out.Runs = append(out.Runs, r.Clone())
	}
	return out
}

// CloneContent returns a deep copy of a paragraph content list.
func CloneContent(content []ParagraphContent) []ParagraphContent {
	out := make([]ParagraphContent, 0, len(content))
	for _, c := range content {
		out = append(out, cloneParagraphContent(c))
	}
	return out
}

func cloneParagraphContent(c ParagraphContent) ParagraphContent {
	switch pc := c.(type) {
	case *Run:
		return pc.Clone()
	case *Hyperlink:
		return pc.Clone()
	case *Insertion:
		return &Insertion{Info: pc.Info, Content: CloneContent(pc.Content)}
	case *Deletion:
		return &Deletion{Info: pc.Info, Content: CloneContent(pc.Content)}
	case *MoveFrom:
		return &MoveFrom{Info: pc.Info, Content: CloneContent(pc.Content)}
	case *MoveTo:
		return &MoveTo{Info: pc.Info, Content: CloneContent(pc.Content)}
	case *MoveRangeStart:
		cp := *pc
		return &cp
	case *MoveRangeEnd:
		cp := *pc
		return &cp
	}
	return c
}

// Clone returns a deep copy of the paragraph.
func (p *Paragraph) Clone() *Paragraph {
	out := &Paragraph{
		StyleID:    p.StyleID,
		Formatting: p.Formatting.Clone(),
		Content:    CloneContent(p.Content),
	}
	for _, pc := range p.PropertyChanges {
		cp := *pc
		cp.Previous = pc.Previous.Clone()
		cp.Current = pc.Current.Clone()
		out.PropertyChanges = append(out.PropertyChanges, &cp)
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Formatting: t.Formatting.Clone()}
	for _, row := range t.Rows {
		nr := &TableRow{}
		if row.Change != nil {
			cc := *row.Change
			nr.Change = &cc
		}
		for _, cell := range row.Cells {
			nc := &TableCell{}
			if cell.Change != nil {
				cc := *cell.Change
				nc.Change = &cc
			}
			for _, b := range cell.Blocks {
				nc.Blocks = append(nc.Blocks, CloneBlock(b))
			}
			nr.Cells = append(nr.Cells, nc)
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// CloneBlock returns a deep copy of any block.
func CloneBlock(b Block) Block {
	switch blk := b.(type) {
	case *Paragraph:
		return blk.Clone()
	case *Table:
		return blk.Clone()
	}
	return b
}
