package doc

// Table is an ordered sequence of rows.
type Table struct {
	// Formatting contains the direct table formatting.
	Formatting Properties `json:"formatting,omitempty"`

	// Rows contains the ordered table rows.
	Rows []*TableRow `json:"rows,omitempty"`
}

// TableRow is an ordered sequence of cells.
type TableRow struct {
	// Cells contains the ordered row cells.
	Cells []*TableCell `json:"cells,omitempty"`

	// Change records a tracked structural change (row insertion or
	// deletion), if any.
	Change *TableChange `json:"change,omitempty"`
}

// TableCell holds a nested block sequence; cells can contain paragraphs and
// further tables, recursively.
type TableCell struct {
	// Blocks contains the ordered cell content.
	Blocks []Block `json:"blocks,omitempty"`

	// Change records a tracked structural change (cell merge or split),
	// if any.
	Change *TableChange `json:"change,omitempty"`
}

// LeafParagraphs returns every paragraph reachable from the table in
// pre-order: rows first, then cells, descending into nested tables.
func (t *Table) LeafParagraphs() []*Paragraph {
	var out []*Paragraph
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			for _, b := range cell.Blocks {
				switch blk := b.(type) {
				case *Paragraph:
					out = append(out, blk)
				case *Table:
					out = append(out, blk.LeafParagraphs()...)
				}
			}
		}
	}
	return out
}
