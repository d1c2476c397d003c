// Package revision implements the diff-on-save revision engine: given a
// document tree before and after an editing session, it computes a minimal
// delta and re-expresses it as a tracked-changes-annotated tree.
//
// # Pipeline
//
// Revisionize drives a block aligner (two-pointer walk with bounded
// lookahead over anchor identity), a move detector (greedy first-fit pairing
// of unmatched deleted and inserted blocks), and per paragraph pair a
// property change detector plus a character-level LCS differencer whose
// chunks are wrapped in Insertion/Deletion containers.
//
// # IDs
//
// A single Allocator instance is threaded through the entire recursive walk,
// including table-cell recursion, so tracked-change IDs stay unique and
// strictly increasing within one invocation. NewAllocatorAfterDocument
// resumes numbering after an already-tracked document's highest ID.
//
// The engine is a synchronous, side-effect-free transformation: input trees
// are never mutated and the output is a fully rebuilt tree.
package revision
