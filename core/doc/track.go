package doc

// TrackedChangeInfo identifies one atomic tracked edit.
type TrackedChangeInfo struct {
	// ID is the tracked-change identifier, unique within a document.
	ID int `json:"id"`

	// Author is the revision author.
	Author string `json:"author,omitempty"`

	// Date is the revision timestamp as an ISO-8601 string.
	Date string `json:"date,omitempty"`

	// RSID is the optional revision save session identifier.
	RSID string `json:"rsid,omitempty"`
}

// Insertion wraps content that was inserted in a tracked edit.
// Content holds runs and hyperlinks only and is never empty.
type Insertion struct {
	Info    TrackedChangeInfo  `json:"info"`
	Content []ParagraphContent `json:"content"`
}

// Deletion wraps content that was deleted in a tracked edit.
type Deletion struct {
	Info    TrackedChangeInfo  `json:"info"`
	Content []ParagraphContent `json:"content"`
}

// MoveFrom wraps the source side of a tracked move. Its Info.ID is shared
// with the matching MoveTo.
type MoveFrom struct {
	Info    TrackedChangeInfo  `json:"info"`
	Content []ParagraphContent `json:"content"`
}

// MoveTo wraps the destination side of a tracked move. Its Info.ID is shared
// with the matching MoveFrom.
type MoveTo struct {
	Info    TrackedChangeInfo  `json:"info"`
	Content []ParagraphContent `json:"content"`
}

// MoveSide distinguishes the two halves of a move range.
type MoveSide string

// Move side constants.
const (
	MoveSideFrom MoveSide = "from"
	MoveSideTo   MoveSide = "to"
)

// MoveRangeStart opens a move range. The same range ID appears on the
// matching MoveRangeEnd; the range ID is allocated separately from the
// revision ID shared by the MoveFrom/MoveTo pair.
type MoveRangeStart struct {
	ID   int      `json:"id"`
	Name string   `json:"name,omitempty"`
	Side MoveSide `json:"side"`
}

// MoveRangeEnd closes a move range.
type MoveRangeEnd struct {
	ID   int      `json:"id"`
	Side MoveSide `json:"side"`
}

// ParagraphPropertyChange records a tracked formatting change on a
// paragraph. Both the previous and the current state are stored verbatim so
// a round trip can reconstruct either.
type ParagraphPropertyChange struct {
	Info TrackedChangeInfo `json:"info"`

	// PreviousStyleID and CurrentStyleID record a style switch.
	PreviousStyleID string `json:"previous_style_id,omitempty"`
	CurrentStyleID  string `json:"current_style_id,omitempty"`

	// Previous and Current hold the paragraph formatting before and after.
	Previous Properties `json:"previous,omitempty"`
	Current  Properties `json:"current,omitempty"`
}

// RunPropertyChange records a tracked formatting change on a run.
type RunPropertyChange struct {
	Info TrackedChangeInfo `json:"info"`

	// Previous and Current hold the run formatting before and after.
	Previous Properties `json:"previous,omitempty"`
	Current  Properties `json:"current,omitempty"`
}

// TableChangeKind classifies a structural table change.
type TableChangeKind string

// Table change kind constants.
const (
	TableRowInsert TableChangeKind = "row_insert"
	TableRowDelete TableChangeKind = "row_delete"
	TableCellMerge TableChangeKind = "cell_merge"
	TableCellSplit TableChangeKind = "cell_split"
)

// validTableChangeKinds is the set of valid table change kinds.
var validTableChangeKinds = map[TableChangeKind]bool{
	TableRowInsert: true,
	TableRowDelete: true,
	TableCellMerge: true,
	TableCellSplit: true,
}

// IsValid returns true if the table change kind is valid.
func (k TableChangeKind) IsValid() bool {
	return validTableChangeKinds[k]
}

// TableChange records a tracked structural change on a table row or cell.
type TableChange struct {
	Kind TableChangeKind   `json:"kind"`
	Info TrackedChangeInfo `json:"info"`
}
