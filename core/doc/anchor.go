package doc

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// Anchor returns the derived identity string for the paragraph:
// the style ID and the plain text joined by "|". Anchor equality is the
// engine's only notion of paragraph identity across document versions; it is
// a heuristic, not a guarantee (two unrelated paragraphs with the same style
// and text collide).
func (p *Paragraph) Anchor() string {
	return p.StyleID + "|" + p.PlainText()
}

// Anchor returns the derived identity string for the table. The per-cell
// block anchors are folded into one BLAKE3 digest so deeply nested tables
// compare in constant space.
func (t *Table) Anchor() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			for _, b := range cell.Blocks {
				sb.WriteString(BlockAnchor(b))
				sb.WriteByte('\x1f')
			}
			sb.WriteByte('\x1e')
		}
		sb.WriteByte('\x1d')
	}
	sum := blake3.Sum256([]byte(sb.String()))
	return "tbl|" + hex.EncodeToString(sum[:16])
}

// BlockAnchor returns the anchor for any block.
func BlockAnchor(b Block) string {
	switch blk := b.(type) {
	case *Paragraph:
		return blk.Anchor()
	case *Table:
		return blk.Anchor()
	}
	return ""
}
