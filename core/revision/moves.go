package revision

import (
	"strings"

	"github.com/openredline/redline/core/doc"
)

// ParagraphMove describes one detected block relocation between the
// previous and the current sequence.
type ParagraphMove struct {
	// Text is the moved block's plain text.
	Text string `json:"text"`

	// FromBlockIndex is the block's index in the previous sequence.
	FromBlockIndex int `json:"from_block_index"`

	// ToBlockIndex is the block's index in the current sequence.
	ToBlockIndex int `json:"to_block_index"`
}

// movePair joins an unmatched deleted block with an unmatched inserted block
// sharing the same anchor. The range ID brackets each side's markers; the
// revision ID is shared by the MoveFrom and MoveTo wrappers.
type movePair struct {
	fromPair   int // index into the aligner's output
	toPair     int
	rangeID    int
	info       doc.TrackedChangeInfo
	namePrefix string
}

// moveRole marks one aligner entry as a half of an accepted move pair.
type moveRole struct {
	pair *movePair
	side doc.MoveSide
}

// pairMoves scans the aligner output's unmatched deleted blocks in order and
// greedily pairs each with the first unmatched inserted block sharing an
// identical anchor. First-fit is not globally optimal but it is
// deterministic and order-stable, which the output format depends on.
// Blocks whose plain text is shorter than minText never pair.
func pairMoves(pairs []blockPair, minText int) [][2]int {
	type candidate struct {
		idx    int
		anchor string
		used   bool
	}
	var inserted []*candidate
	for idx := range pairs {
		p := &pairs[idx]
		if p.kind != pairInserted {
			continue
		}
		if blockTextLen(p.curr) < minText {
			continue
		}
		inserted = append(inserted, &candidate{idx: idx, anchor: doc.BlockAnchor(p.curr)})
	}

	var accepted [][2]int
	for idx := range pairs {
		p := &pairs[idx]
		if p.kind != pairDeleted {
			continue
		}
		anchor := doc.BlockAnchor(p.prev)
		if blockTextLen(p.prev) < minText {
			continue
		}
		for _, c := range inserted {
			if c.used || c.anchor != anchor {
				continue
			}
			c.used = true
			accepted = append(accepted, [2]int{idx, c.idx})
			break
		}
	}
	return accepted
}

func blockTextLen(b doc.Block) int {
	switch blk := b.(type) {
	case *doc.Paragraph:
		return len(strings.TrimSpace(blk.PlainText()))
	case *doc.Table:
		return len(strings.TrimSpace(blk.PlainText()))
	}
	return 0
}

// DetectParagraphMoves aligns two block sequences and reports which blocks
// moved. It performs only the pairing decision; no IDs are allocated and no
// tree is produced. Opts may be nil.
func DetectParagraphMoves(previous, current []doc.Block, opts *Options) []ParagraphMove {
	resolved := opts.normalized()
	pairs := alignBlocks(previous, current, resolved.Lookahead)
	var moves []ParagraphMove
	for _, ac := range pairMoves(pairs, resolved.MoveDetection.MinParagraphTextLength) {
		from := &pairs[ac[0]]
		to := &pairs[ac[1]]
		text := ""
		switch blk := from.prev.(type) {
		case *doc.Paragraph:
			text = blk.PlainText()
		case *doc.Table:
			text = blk.PlainText()
		}
		moves = append(moves, ParagraphMove{
			Text:           text,
			FromBlockIndex: from.prevIndex,
			ToBlockIndex:   to.currIndex,
		})
	}
	return moves
}

// allocateMoves accepts the pairing decisions and allocates IDs: per pair
// one range ID for the bracketing markers, then one revision ID shared by
// both wrappers. Returns the aligner-entry index to role mapping.
func (rc *revContext) allocateMoves(pairs []blockPair) map[int]moveRole {
	roles := make(map[int]moveRole)
	for _, ac := range pairMoves(pairs, rc.opts.MoveDetection.MinParagraphTextLength) {
		mv := &movePair{fromPair: ac[0], toPair: ac[1]}
		mv.rangeID = rc.alloc.Next()
		mv.info = rc.insertionInfo()
		mv.namePrefix = moveRangeName(mv.rangeID)
		roles[ac[0]] = moveRole{pair: mv, side: doc.MoveSideFrom}
		roles[ac[1]] = moveRole{pair: mv, side: doc.MoveSideTo}
	}
	return roles
}
