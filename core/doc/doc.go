// Package doc provides the canonical document tree consumed and produced by
// the revision engine.
//
// The tree mirrors the structure of a word-processing document without
// committing to any particular markup format:
//
//   - Document: top-level container with a metadata shell and ordered blocks
//   - Block: a Paragraph or a Table
//   - Paragraph: ordered paragraph content (runs, hyperlinks, tracked-change
//     wrappers, move range markers) plus formatting
//   - Run: ordered inline content (text, tabs, breaks) plus formatting
//   - Table: rows of cells, each cell holding a nested block sequence
//
// # Tracked changes
//
// Edits are recorded as wrapper nodes (Insertion, Deletion, MoveFrom, MoveTo)
// carrying a TrackedChangeInfo, as paired move range markers, and as
// formatting-change records (ParagraphPropertyChange, RunPropertyChange,
// TableChange) that hold both the old and the new state.
//
// # Identity
//
// Blocks have no persistent identity across document versions. Equality of a
// derived anchor (style plus plain text, see Anchor) is the only notion of
// "the same block" the engine works with.
//
// # Serialization
//
// Every node marshals to JSON with a "kind" discriminator so heterogeneous
// content lists survive a round trip. This snapshot codec is the interchange
// format for the CLI, the store, and the API; it is not the word-processing
// markup itself, which an external serializer owns.
package doc
