package revision

import "github.com/openredline/redline/core/doc"

// pairKind classifies one entry of the aligner's output sequence.
type pairKind uint8

const (
	// pairMatched: anchors equal, blocks recurse as an in-place pair.
	pairMatched pairKind = iota

	// pairForced: anchors differ but no resynchronization point was found
	// within the lookahead window; the blocks are paired anyway and
	// diffed against each other.
	pairForced

	// pairInserted: block present only in the current sequence.
	pairInserted

	// pairDeleted: block present only in the previous sequence.
	pairDeleted
)

// String returns a human-readable representation of the pair kind.
func (k pairKind) String() string {
	switch k {
	case pairMatched:
		return "matched"
	case pairForced:
		return "forced"
	case pairInserted:
		return "inserted"
	case pairDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// blockPair is one aligned entry. prev is nil for insertions, curr is nil
// for deletions; indices are -1 when the side is absent.
type blockPair struct {
	kind      pairKind
	prev      doc.Block
	curr      doc.Block
	prevIndex int
	currIndex int
}

// alignBlocks walks the previous and current block sequences with two
// pointers, pairing blocks by anchor equality. On a mismatch it searches a
// bounded lookahead window in both sequences for a resynchronization point,
// preferring the shorter skip; when neither side matches within the window
// the blocks are force-paired. Each mismatch costs up to O(lookahead)
// scanning, so a document of n blocks aligns in O(n*lookahead) worst case.
func alignBlocks(prev, curr []doc.Block, lookahead int) []blockPair {
	prevAnchors := make([]string, len(prev))
	for i, b := range prev {
		prevAnchors[i] = doc.BlockAnchor(b)
	}
	currAnchors := make([]string, len(curr))
	for j, b := range curr {
		currAnchors[j] = doc.BlockAnchor(b)
	}

	var out []blockPair
	i, j := 0, 0
	for i < len(prev) || j < len(curr) {
		switch {
		case i >= len(prev):
			out = append(out, blockPair{kind: pairInserted, curr: curr[j], prevIndex: -1, currIndex: j})
			j++
		case j >= len(curr):
			out = append(out, blockPair{kind: pairDeleted, prev: prev[i], prevIndex: i, currIndex: -1})
			i++
		case prevAnchors[i] == currAnchors[j]:
			out = append(out, blockPair{kind: pairMatched, prev: prev[i], curr: curr[j], prevIndex: i, currIndex: j})
			i++
			j++
		default:
			matchInCurrent := findAnchor(currAnchors, j+1, lookahead, prevAnchors[i])
			matchInPrevious := findAnchor(prevAnchors, i+1, lookahead, currAnchors[j])
			switch {
			case matchInCurrent >= 0 && (matchInPrevious < 0 || matchInCurrent-j <= matchInPrevious-i):
				for ; j < matchInCurrent; j++ {
					out = append(out, blockPair{kind: pairInserted, curr: curr[j], prevIndex: -1, currIndex: j})
				}
			case matchInPrevious >= 0:
				for ; i < matchInPrevious; i++ {
					out = append(out, blockPair{kind: pairDeleted, prev: prev[i], prevIndex: i, currIndex: -1})
				}
			default:
				out = append(out, blockPair{kind: pairForced, prev: prev[i], curr: curr[j], prevIndex: i, currIndex: j})
				i++
				j++
			}
		}
	}
	return out
}

// findAnchor scans anchors[from..from+lookahead) for the target anchor and
// returns its index, or -1.
func findAnchor(anchors []string, from, lookahead int, target string) int {
	end := from + lookahead
	if end > len(anchors) {
		end = len(anchors)
	}
	for k := from; k < end; k++ {
		if anchors[k] == target {
			return k
		}
	}
	return -1
}
