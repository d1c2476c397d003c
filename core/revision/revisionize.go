package revision

import "github.com/openredline/redline/core/doc"

// Revisionize computes the tracked-changes-annotated tree for the edit that
// turned previous into current. Input trees are never mutated; the result is
// a fully rebuilt document carrying current's metadata shell. Opts may be
// nil, which means a fresh allocator starting at 1, move detection enabled
// and the default lookahead.
func Revisionize(previous, current *doc.Document, opts *Options) *doc.Document {
	rc := newRevContext(opts)
	out := current.Shell()
	out.Blocks = rc.revisionizeBlocks(previous.Blocks, current.Blocks)
	return out
}

// revisionizeBlocks aligns two block sequences, accepts move pairs, and
// emits the annotated output sequence in aligner order. It recurses into
// table cells through the same context, so the allocator stays shared.
func (rc *revContext) revisionizeBlocks(prev, curr []doc.Block) []doc.Block {
	pairs := alignBlocks(prev, curr, rc.opts.Lookahead)

	var moves map[int]moveRole
	if !rc.opts.DisableMoveDetection {
		moves = rc.allocateMoves(pairs)
	}

	var out []doc.Block
	for idx := range pairs {
		p := &pairs[idx]
		switch p.kind {
		case pairMatched, pairForced:
			out = append(out, rc.revisionizePair(p.prev, p.curr)...)
		case pairDeleted:
			if role, ok := moves[idx]; ok {
				out = append(out, rc.moveBlock(p.prev, role))
			} else {
				out = append(out, rc.deleteBlock(p.prev))
			}
		case pairInserted:
			if role, ok := moves[idx]; ok {
				out = append(out, rc.moveBlock(p.curr, role))
			} else {
				out = append(out, rc.insertBlock(p.curr))
			}
		}
	}
	return out
}

// revisionizePair recurses into one aligned pair. Force-paired blocks of
// different types cannot diff in place and degrade to a whole-block
// deletion plus insertion.
func (rc *revContext) revisionizePair(prev, curr doc.Block) []doc.Block {
	switch p := prev.(type) {
	case *doc.Paragraph:
		if c, ok := curr.(*doc.Paragraph); ok {
			return []doc.Block{rc.revisionizeParagraph(p, c)}
		}
	case *doc.Table:
		if c, ok := curr.(*doc.Table); ok {
			return []doc.Block{rc.revisionizeTable(p, c)}
		}
	}
	return []doc.Block{rc.deleteBlock(prev), rc.insertBlock(curr)}
}

// revisionizeParagraph rebuilds one paired paragraph: content-level diff via
// the run revisionizer, formatting-level diff via the property change
// detector. Both can contribute to the same output paragraph.
func (rc *revContext) revisionizeParagraph(prev, curr *doc.Paragraph) *doc.Paragraph {
	out := &doc.Paragraph{
		StyleID:    curr.StyleID,
		Formatting: curr.Formatting.Clone(),
	}
	out.PropertyChanges = rc.paragraphPropertyChanges(prev, curr)
	out.Content = rc.revisionizeRuns(
		flattenParagraphRuns(prev.Content),
		flattenParagraphRuns(curr.Content),
	)
	return out
}

// revisionizeTable recurses into a paired table row by row, cell by cell.
// Rows pair by index; surplus current rows become tracked row insertions,
// surplus previous rows are appended as tracked row deletions.
func (rc *revContext) revisionizeTable(prev, curr *doc.Table) *doc.Table {
	out := &doc.Table{Formatting: curr.Formatting.Clone()}
	shared := len(prev.Rows)
	if len(curr.Rows) < shared {
		shared = len(curr.Rows)
	}
	for ri := 0; ri < shared; ri++ {
		out.Rows = append(out.Rows, rc.revisionizeRow(prev.Rows[ri], curr.Rows[ri]))
	}
	for ri := shared; ri < len(curr.Rows); ri++ {
		info := rc.insertionInfo()
		row := rc.wrapRow(curr.Rows[ri], info, true)
		row.Change = &doc.TableChange{Kind: doc.TableRowInsert, Info: info}
		out.Rows = append(out.Rows, row)
	}
	for ri := shared; ri < len(prev.Rows); ri++ {
		info := rc.deletionInfo()
		row := rc.wrapRow(prev.Rows[ri], info, false)
		row.Change = &doc.TableChange{Kind: doc.TableRowDelete, Info: info}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func (rc *revContext) revisionizeRow(prev, curr *doc.TableRow) *doc.TableRow {
	out := &doc.TableRow{}
	shared := len(prev.Cells)
	if len(curr.Cells) < shared {
		shared = len(curr.Cells)
	}
	if curr.Change != nil {
		cc := *curr.Change
		out.Change = &cc
	}
	for ci := 0; ci < shared; ci++ {
		cell := &doc.TableCell{
			Blocks: rc.revisionizeBlocks(prev.Cells[ci].Blocks, curr.Cells[ci].Blocks),
		}
		if curr.Cells[ci].Change != nil {
			cc := *curr.Cells[ci].Change
			cell.Change = &cc
		}
		out.Cells = append(out.Cells, cell)
	}
	for ci := shared; ci < len(curr.Cells); ci++ {
		out.Cells = append(out.Cells, &doc.TableCell{
			Blocks: rc.revisionizeBlocks(nil, curr.Cells[ci].Blocks),
		})
	}
	for ci := shared; ci < len(prev.Cells); ci++ {
		out.Cells = append(out.Cells, &doc.TableCell{
			Blocks: rc.revisionizeBlocks(prev.Cells[ci].Blocks, nil),
		})
	}
	return out
}

// wrapRow clones one surplus table row and wraps every leaf paragraph's
// content in an insertion or deletion carrying the row's info. The caller
// attaches the structural change record.
func (rc *revContext) wrapRow(row *doc.TableRow, info doc.TrackedChangeInfo, insert bool) *doc.TableRow {
	wrap := func(content []doc.ParagraphContent) doc.ParagraphContent {
		if insert {
			return &doc.Insertion{Info: info, Content: content}
		}
		return &doc.Deletion{Info: info, Content: content}
	}
	out := &doc.TableRow{}
	for _, cell := range row.Cells {
		oc := &doc.TableCell{}
		if cell.Change != nil {
			cc := *cell.Change
			oc.Change = &cc
		}
		for _, b := range cell.Blocks {
			oc.Blocks = append(oc.Blocks, wrapWholeBlock(b, wrap, info, rowChangeKind(insert)))
		}
		out.Cells = append(out.Cells, oc)
	}
	return out
}

func rowChangeKind(insert bool) doc.TableChangeKind {
	if insert {
		return doc.TableRowInsert
	}
	return doc.TableRowDelete
}

// insertBlock wraps an unmatched current block whole: one freshly allocated
// info covers the entire block, recursively for tables.
func (rc *revContext) insertBlock(b doc.Block) doc.Block {
	info := rc.insertionInfo()
	return wrapWholeBlock(b, func(content []doc.ParagraphContent) doc.ParagraphContent {
		return &doc.Insertion{Info: info, Content: content}
	}, info, doc.TableRowInsert)
}

// deleteBlock wraps an unmatched previous block whole.
func (rc *revContext) deleteBlock(b doc.Block) doc.Block {
	info := rc.deletionInfo()
	return wrapWholeBlock(b, func(content []doc.ParagraphContent) doc.ParagraphContent {
		return &doc.Deletion{Info: info, Content: content}
	}, info, doc.TableRowDelete)
}

// wrapWholeBlock rebuilds a block with every leaf paragraph's content
// wrapped by wrap. For tables each row additionally records a structural
// change with the same info.
func wrapWholeBlock(b doc.Block, wrap func([]doc.ParagraphContent) doc.ParagraphContent, info doc.TrackedChangeInfo, rowKind doc.TableChangeKind) doc.Block {
	switch blk := b.(type) {
	case *doc.Paragraph:
		return wrapParagraph(blk, wrap, false)
	case *doc.Table:
		out := blk.Clone()
		for _, row := range out.Rows {
			row.Change = &doc.TableChange{Kind: rowKind, Info: info}
		}
		for _, leaf := range out.LeafParagraphs() {
			wrapLeafInPlace(leaf, wrap, false)
		}
		return out
	}
	return b
}

// wrapParagraph rebuilds one paragraph with its wrappable content inside a
// single container. Empty paragraphs stay empty: wrappers never hold empty
// content.
func wrapParagraph(p *doc.Paragraph, wrap func([]doc.ParagraphContent) doc.ParagraphContent, dropPropChanges bool) *doc.Paragraph {
	out := &doc.Paragraph{
		StyleID:    p.StyleID,
		Formatting: p.Formatting.Clone(),
	}
	if !dropPropChanges {
		for _, ch := range p.PropertyChanges {
			cp := *ch
			out.PropertyChanges = append(out.PropertyChanges, &cp)
		}
	}
	content := wrappableContent(p.Content, dropPropChanges)
	if len(content) > 0 {
		out.Content = []doc.ParagraphContent{wrap(content)}
	}
	return out
}

func wrapLeafInPlace(p *doc.Paragraph, wrap func([]doc.ParagraphContent) doc.ParagraphContent, dropPropChanges bool) {
	if dropPropChanges {
		p.PropertyChanges = nil
	}
	content := wrappableContent(p.Content, dropPropChanges)
	if len(content) == 0 {
		p.Content = nil
		return
	}
	p.Content = []doc.ParagraphContent{wrap(content)}
}

// wrappableContent reduces paragraph content to the runs and hyperlinks a
// tracked-change wrapper may hold, in the accepted-changes view.
func wrappableContent(content []doc.ParagraphContent, dropPropChanges bool) []doc.ParagraphContent {
	var out []doc.ParagraphContent
	for _, c := range content {
		switch pc := c.(type) {
		case *doc.Run:
			run := pc.Clone()
			if dropPropChanges {
				run.PropertyChanges = nil
			}
			out = append(out, run)
		case *doc.Hyperlink:
			link := pc.Clone()
			if dropPropChanges {
				for _, r := range link.Runs {
					r.PropertyChanges = nil
				}
			}
			out = append(out, link)
		case *doc.Insertion:
			out = append(out, wrappableContent(pc.Content, dropPropChanges)...)
		case *doc.MoveTo:
			out = append(out, wrappableContent(pc.Content, dropPropChanges)...)
		}
	}
	return out
}

// moveBlock renders one half of an accepted move pair. Paragraphs get the
// range start marker, the wrapper, and the range end marker as their
// content; tables attach the range markers to only the first and last leaf
// paragraph of the pre-order walk while every leaf's content is wrapped.
// Formatting-change records are dropped from moved content.
func (rc *revContext) moveBlock(b doc.Block, role moveRole) doc.Block {
	mv := role.pair
	wrap := func(content []doc.ParagraphContent) doc.ParagraphContent {
		if role.side == doc.MoveSideFrom {
			return &doc.MoveFrom{Info: mv.info, Content: content}
		}
		return &doc.MoveTo{Info: mv.info, Content: content}
	}
	start := &doc.MoveRangeStart{ID: mv.rangeID, Name: mv.namePrefix, Side: role.side}
	end := &doc.MoveRangeEnd{ID: mv.rangeID, Side: role.side}

	switch blk := b.(type) {
	case *doc.Paragraph:
		out := wrapParagraph(blk, wrap, true)
		out.Content = append([]doc.ParagraphContent{start}, append(out.Content, end)...)
		return out
	case *doc.Table:
		out := blk.Clone()
		leaves := out.LeafParagraphs()
		for _, leaf := range leaves {
			wrapLeafInPlace(leaf, wrap, true)
		}
		if len(leaves) > 0 {
			first, last := leaves[0], leaves[len(leaves)-1]
			first.Content = append([]doc.ParagraphContent{start}, first.Content...)
			last.Content = append(last.Content, end)
		}
		return out
	}
	return b
}
