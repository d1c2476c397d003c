package revision

import (
	"fmt"

	"github.com/openredline/redline/core/doc"
)

// flattenParagraphRuns extracts the diffable run list from paragraph
// content. Hyperlink children flatten to their inner runs; already-annotated
// content reduces to the accepted-changes view (insertions and move
// destinations unwrapped, deletions and move sources dropped).
func flattenParagraphRuns(content []doc.ParagraphContent) []*doc.Run {
	var runs []*doc.Run
	for _, c := range content {
		switch pc := c.(type) {
		case *doc.Run:
			runs = append(runs, pc)
		case *doc.Hyperlink:
			runs = append(runs, pc.Runs...)
		case *doc.Insertion:
			runs = append(runs, flattenParagraphRuns(pc.Content)...)
		case *doc.MoveTo:
			runs = append(runs, flattenParagraphRuns(pc.Content)...)
		}
	}
	return runs
}

// revisionizeRuns diffs two run lists and wraps inserted and deleted chunks
// in tracked-change containers. Equal chunks pass through as plain runs,
// carrying a run property-change record when only their formatting moved.
// Consecutive wrappers of the same kind merge into one container.
func (rc *revContext) revisionizeRuns(prev, curr []*doc.Run) []doc.ParagraphContent {
	chunks := DiffRuns(prev, curr)

	var moves map[int]*runMove
	if rc.opts.MoveDetection.DetectRunMoves {
		moves = rc.pairRunMoves(chunks)
	}

	var out []doc.ParagraphContent
	for i, ch := range chunks {
		if mv, ok := moves[i]; ok {
			out = append(out, mv.nodes(ch, i)...)
			continue
		}
		switch ch.Kind {
		case ChunkEqual:
			run := ch.Run
			run.PropertyChanges = rc.runPropertyChanges(ch.PrevFormatting, ch.Formatting)
			out = append(out, run)
		case ChunkInsert:
			if last, ok := lastInsertion(out); ok {
				last.Content = append(last.Content, ch.Run)
			} else {
				out = append(out, &doc.Insertion{Info: rc.insertionInfo(), Content: []doc.ParagraphContent{ch.Run}})
			}
		case ChunkDelete:
			if last, ok := lastDeletion(out); ok {
				last.Content = append(last.Content, ch.Run)
			} else {
				out = append(out, &doc.Deletion{Info: rc.deletionInfo(), Content: []doc.ParagraphContent{ch.Run}})
			}
		}
	}
	return out
}

func lastInsertion(content []doc.ParagraphContent) (*doc.Insertion, bool) {
	if len(content) == 0 {
		return nil, false
	}
	ins, ok := content[len(content)-1].(*doc.Insertion)
	return ins, ok
}

func lastDeletion(content []doc.ParagraphContent) (*doc.Deletion, bool) {
	if len(content) == 0 {
		return nil, false
	}
	del, ok := content[len(content)-1].(*doc.Deletion)
	return del, ok
}

// runMove is an accepted inline move pair: a delete chunk and an insert
// chunk with identical text, rewritten as MoveFrom/MoveTo instead of
// Deletion/Insertion.
type runMove struct {
	rangeID int
	info    doc.TrackedChangeInfo
	side    doc.MoveSide
}

// pairRunMoves greedily pairs each delete chunk with the first insert chunk
// of identical text meeting the minimum length, scanning in order. Returns
// chunk index to move role; both halves of a pair share one allocated
// revision ID and one range ID, matching the block-level move discipline.
func (rc *revContext) pairRunMoves(chunks []Chunk) map[int]*runMove {
	minLen := rc.opts.MoveDetection.MinRunTextLength
	moves := make(map[int]*runMove)
	used := make(map[int]bool)
	for di, d := range chunks {
		if d.Kind != ChunkDelete || len([]rune(d.Text)) < minLen {
			continue
		}
		for ii := range chunks {
			ins := chunks[ii]
			if ins.Kind != ChunkInsert || used[ii] || ins.Text != d.Text {
				continue
			}
			rangeID := rc.alloc.Next()
			info := rc.insertionInfo()
			moves[di] = &runMove{rangeID: rangeID, info: info, side: doc.MoveSideFrom}
			moves[ii] = &runMove{rangeID: rangeID, info: info, side: doc.MoveSideTo}
			used[ii] = true
			break
		}
	}
	return moves
}

// nodes renders one half of an inline move: range start, wrapper, range end.
func (mv *runMove) nodes(ch Chunk, _ int) []doc.ParagraphContent {
	name := moveRangeName(mv.rangeID)
	var wrapper doc.ParagraphContent
	if mv.side == doc.MoveSideFrom {
		wrapper = &doc.MoveFrom{Info: mv.info, Content: []doc.ParagraphContent{ch.Run}}
	} else {
		wrapper = &doc.MoveTo{Info: mv.info, Content: []doc.ParagraphContent{ch.Run}}
	}
	return []doc.ParagraphContent{
		&doc.MoveRangeStart{ID: mv.rangeID, Name: name, Side: mv.side},
		wrapper,
		&doc.MoveRangeEnd{ID: mv.rangeID, Side: mv.side},
	}
}

// moveRangeName derives the deterministic bookmark-style name for a move
// range from its range ID.
func moveRangeName(rangeID int) string {
	return fmt.Sprintf("move%d", rangeID)
}
