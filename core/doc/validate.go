package doc

import "fmt"

// ValidateDocument checks structural invariants of a (possibly annotated)
// document tree and returns all violations found. A nil return means the
// tree is well-formed.
func ValidateDocument(d *Document) []error {
	var errs []error
	for i, b := range d.Blocks {
		errs = append(errs, validateBlock(fmt.Sprintf("blocks[%d]", i), b)...)
	}
	return errs
}

func validateBlock(path string, b Block) []error {
	switch blk := b.(type) {
	case *Paragraph:
		return validateParagraph(path, blk)
	case *Table:
		return validateTable(path, blk)
	}
	return []error{fmt.Errorf("%s: unknown block type %T", path, b)}
}

func validateParagraph(path string, p *Paragraph) []error {
	var errs []error
	open := map[MoveSide]int{}
	for i, c := range p.Content {
		cp := fmt.Sprintf("%s.content[%d]", path, i)
		switch pc := c.(type) {
		case *Run, *Hyperlink:
		case *Insertion:
			errs = append(errs, validateWrapper(cp, pc.Info, pc.Content)...)
		case *Deletion:
			errs = append(errs, validateWrapper(cp, pc.Info, pc.Content)...)
		case *MoveFrom:
			errs = append(errs, validateWrapper(cp, pc.Info, pc.Content)...)
		case *MoveTo:
			errs = append(errs, validateWrapper(cp, pc.Info, pc.Content)...)
		case *MoveRangeStart:
			open[pc.Side]++
		case *MoveRangeEnd:
			open[pc.Side]--
			if open[pc.Side] < 0 {
				errs = append(errs, fmt.Errorf("%s: move range end without start", cp))
				open[pc.Side] = 0
			}
		}
	}
	for _, ch := range p.PropertyChanges {
		if ch.Info.ID < 0 {
			errs = append(errs, fmt.Errorf("%s: property change with negative ID", path))
		}
	}
	return errs
}

func validateWrapper(path string, info TrackedChangeInfo, content []ParagraphContent) []error {
	var errs []error
	if info.ID < 0 {
		errs = append(errs, fmt.Errorf("%s: negative tracked-change ID %d", path, info.ID))
	}
	if len(content) == 0 {
		errs = append(errs, fmt.Errorf("%s: empty tracked-change wrapper", path))
	}
	for _, c := range content {
		switch c.(type) {
		case *Run, *Hyperlink:
		default:
			errs = append(errs, fmt.Errorf("%s: wrapper content must be runs or hyperlinks, got %T", path, c))
		}
	}
	return errs
}

func validateTable(path string, t *Table) []error {
	var errs []error
	for ri, row := range t.Rows {
		if row.Change != nil && !row.Change.Kind.IsValid() {
			errs = append(errs, fmt.Errorf("%s.rows[%d]: invalid table change kind %q", path, ri, row.Change.Kind))
		}
		for ci, cell := range row.Cells {
			if cell.Change != nil && !cell.Change.Kind.IsValid() {
				errs = append(errs, fmt.Errorf("%s.rows[%d].cells[%d]: invalid table change kind %q", path, ri, ci, cell.Change.Kind))
			}
			for bi, b := range cell.Blocks {
				bp := fmt.Sprintf("%s.rows[%d].cells[%d].blocks[%d]", path, ri, ci, bi)
				errs = append(errs, validateBlock(bp, b)...)
			}
		}
	}
	return errs
}
