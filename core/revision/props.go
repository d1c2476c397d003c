package revision

import "github.com/openredline/redline/core/doc"

// paragraphPropertyChanges compares the formatting of a paired paragraph. On
// equality the current side's existing records pass through untouched,
// preserving history already present; on change a single fresh record
// carries both the old and the new state verbatim.
func (rc *revContext) paragraphPropertyChanges(prev, curr *doc.Paragraph) []*doc.ParagraphPropertyChange {
	if prev.StyleID == curr.StyleID && prev.Formatting.Equal(curr.Formatting) {
		return curr.PropertyChanges
	}
	return []*doc.ParagraphPropertyChange{{
		Info:            rc.insertionInfo(),
		PreviousStyleID: prev.StyleID,
		CurrentStyleID:  curr.StyleID,
		Previous:        prev.Formatting.Clone(),
		Current:         curr.Formatting.Clone(),
	}}
}

// runPropertyChanges compares run formatting before and after; nil on
// equality, otherwise a single fresh record with both states.
func (rc *revContext) runPropertyChanges(prev, curr doc.Properties) []*doc.RunPropertyChange {
	if prev.Equal(curr) {
		return nil
	}
	return []*doc.RunPropertyChange{{
		Info:     rc.insertionInfo(),
		Previous: prev.Clone(),
		Current:  curr.Clone(),
	}}
}
