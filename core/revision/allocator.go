package revision

import (
	"fmt"

	"github.com/openredline/redline/core/doc"
)

// Allocator issues monotonically increasing tracked-change IDs. A single
// instance must be threaded through one whole revisionize call; IDs it
// issues are strictly increasing and never reused.
type Allocator struct {
	next int
}

// NewAllocator returns an allocator whose first issued ID is start.
// Values below 1 normalize to 1; ID 0 is never allocated.
func NewAllocator(start int) *Allocator {
	if start < 1 {
		start = 1
	}
	return &Allocator{next: start}
}

// Next consumes and returns the next ID.
func (a *Allocator) Next() int {
	id := a.next
	a.next++
	return id
}

// Peek returns the next ID without consuming it.
func (a *Allocator) Peek() int {
	return a.next
}

// Reserve consumes a contiguous block of count IDs and returns them in
// order. A negative count is a programmer error and panics.
func (a *Allocator) Reserve(count int) []int {
	if count < 0 {
		panic(fmt.Sprintf("revision: negative reserve count %d", count))
	}
	ids := make([]int, count)
	for i := range ids {
		ids[i] = a.Next()
	}
	return ids
}

// InferMaxRevisionID walks every tracked-change wrapper, formatting-change
// record, and table structural-change record in the tree and returns the
// maximum ID found, or 0 if the document carries no tracked changes.
func InferMaxRevisionID(d *doc.Document) int {
	max := 0
	for _, b := range d.Blocks {
		if id := maxBlockRevisionID(b); id > max {
			max = id
		}
	}
	return max
}

// NewAllocatorAfterDocument returns a fresh allocator starting one past the
// document's highest tracked-change ID, enabling incremental
// re-revisionizing of an already-tracked document without ID collisions.
func NewAllocatorAfterDocument(d *doc.Document) *Allocator {
	return NewAllocator(InferMaxRevisionID(d) + 1)
}

func maxBlockRevisionID(b doc.Block) int {
	switch blk := b.(type) {
	case *doc.Paragraph:
		return maxParagraphRevisionID(blk)
	case *doc.Table:
		return maxTableRevisionID(blk)
	}
	return 0
}

func maxParagraphRevisionID(p *doc.Paragraph) int {
	max := 0
	for _, ch := range p.PropertyChanges {
		if ch.Info.ID > max {
			max = ch.Info.ID
		}
	}
	if id := maxContentRevisionID(p.Content); id > max {
		max = id
	}
	return max
}

func maxContentRevisionID(content []doc.ParagraphContent) int {
	max := 0
	track := func(id int) {
		if id > max {
			max = id
		}
	}
	for _, c := range content {
		switch pc := c.(type) {
		case *doc.Run:
			for _, ch := range pc.PropertyChanges {
				track(ch.Info.ID)
			}
		case *doc.Hyperlink:
			for _, r := range pc.Runs {
				for _, ch := range r.PropertyChanges {
					track(ch.Info.ID)
				}
			}
		case *doc.Insertion:
			track(pc.Info.ID)
			track(maxContentRevisionID(pc.Content))
		case *doc.Deletion:
			track(pc.Info.ID)
			track(maxContentRevisionID(pc.Content))
		case *doc.MoveFrom:
			track(pc.Info.ID)
			track(maxContentRevisionID(pc.Content))
		case *doc.MoveTo:
			track(pc.Info.ID)
			track(maxContentRevisionID(pc.Content))
		}
	}
	return max
}

func maxTableRevisionID(t *doc.Table) int {
	max := 0
	for _, row := range t.Rows {
		if row.Change != nil && row.Change.Info.ID > max {
			max = row.Change.Info.ID
		}
		for _, cell := range row.Cells {
			if cell.Change != nil && cell.Change.Info.ID > max {
				max = cell.Change.Info.ID
			}
			for _, b := range cell.Blocks {
				if id := maxBlockRevisionID(b); id > max {
					max = id
				}
			}
		}
	}
	return max
}
