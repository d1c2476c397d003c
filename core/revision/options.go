package revision

import "time"

// DefaultLookahead is the resynchronization window of the block aligner.
const DefaultLookahead = 64

// DefaultAuthor is used when neither the per-kind metadata nor
// FallbackAuthor names a revision author.
const DefaultAuthor = "Unknown"

// defaultMinRunTextLength gates run-level move rewriting; shorter fragments
// are too likely to collide by accident.
const defaultMinRunTextLength = 3

// Metadata names the author and timestamp stamped on tracked changes of one
// kind. Unset fields fall back to Options.FallbackAuthor and the current
// time.
type Metadata struct {
	Author string `json:"author,omitempty"`
	Date   string `json:"date,omitempty"`
}

// MoveDetectionOptions tunes the move detector.
type MoveDetectionOptions struct {
	// MinParagraphTextLength is the minimum plain-text length for a block
	// to participate in move pairing. Values below 1 normalize to 1.
	MinParagraphTextLength int `json:"min_paragraph_text_length,omitempty"`

	// MinRunTextLength is the minimum chunk text length for run-level
	// move rewriting. Values below 1 normalize to 3.
	MinRunTextLength int `json:"min_run_text_length,omitempty"`

	// DetectRunMoves enables inline move rewriting of matching
	// delete/insert chunk pairs within one paragraph.
	DetectRunMoves bool `json:"detect_run_moves,omitempty"`
}

// Options configures one Revisionize invocation. The zero value is usable:
// a fresh allocator starting at 1, move detection on, default lookahead.
type Options struct {
	// Allocator issues tracked-change IDs. Nil means a fresh allocator
	// starting at 1.
	Allocator *Allocator `json:"-"`

	// InsertionMetadata and DeletionMetadata stamp insertions and
	// deletions independently; either may be nil.
	InsertionMetadata *Metadata `json:"insertion_metadata,omitempty"`
	DeletionMetadata  *Metadata `json:"deletion_metadata,omitempty"`

	// FallbackAuthor is used when the per-kind metadata has no author.
	FallbackAuthor string `json:"fallback_author,omitempty"`

	// RSID is an optional revision save session identifier stamped on
	// every tracked change produced by this invocation.
	RSID string `json:"rsid,omitempty"`

	// DisableMoveDetection turns the move detector off; unmatched blocks
	// then always become whole-block insertions/deletions.
	DisableMoveDetection bool `json:"disable_move_detection,omitempty"`

	// Lookahead overrides the aligner's resynchronization window.
	// Values below 1 normalize to DefaultLookahead.
	Lookahead int `json:"lookahead,omitempty"`

	// MoveDetection tunes move pairing.
	MoveDetection MoveDetectionOptions `json:"move_detection,omitempty"`

	// Now is the timestamp source; nil means time.Now. Exposed so tests
	// get stable dates.
	Now func() time.Time `json:"-"`
}

// normalized returns a copy with defaults applied; opts may be nil.
func (o *Options) normalized() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Allocator == nil {
		out.Allocator = NewAllocator(1)
	}
	if out.Lookahead < 1 {
		out.Lookahead = DefaultLookahead
	}
	if out.MoveDetection.MinParagraphTextLength < 1 {
		out.MoveDetection.MinParagraphTextLength = 1
	}
	if out.MoveDetection.MinRunTextLength < 1 {
		out.MoveDetection.MinRunTextLength = defaultMinRunTextLength
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	return out
}
