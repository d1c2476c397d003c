package revision

import (
	"testing"

	"github.com/openredline/redline/core/doc"
)

func TestAllocatorNextIncrements(t *testing.T) {
	a := NewAllocator(5)
	for want := 5; want < 8; want++ {
		if got := a.Next(); got != want {
			t.Errorf("Next() = %d, want %d", got, want)
		}
	}
}

func TestAllocatorPeekDoesNotConsume(t *testing.T) {
	a := NewAllocator(3)
	if got := a.Peek(); got != 3 {
		t.Errorf("Peek() = %d, want 3", got)
	}
	if got := a.Peek(); got != 3 {
		t.Errorf("second Peek() = %d, want 3", got)
	}
	if got := a.Next(); got != 3 {
		t.Errorf("Next() after Peek = %d, want 3", got)
	}
}

func TestAllocatorNormalizesStart(t *testing.T) {
	for _, start := range []int{0, -1, -100} {
		a := NewAllocator(start)
		if got := a.Next(); got != 1 {
			t.Errorf("NewAllocator(%d).Next() = %d, want 1", start, got)
		}
	}
}

func TestAllocatorReserveContiguous(t *testing.T) {
	a := NewAllocator(10)
	ids := a.Reserve(4)
	if len(ids) != 4 {
		t.Fatalf("Reserve(4) returned %d IDs", len(ids))
	}
	for i, id := range ids {
		if id != 10+i {
			t.Errorf("ids[%d] = %d, want %d", i, id, 10+i)
		}
	}
	if got := a.Peek(); got != 14 {
		t.Errorf("Peek() after Reserve = %d, want 14", got)
	}
}

func TestAllocatorReserveZero(t *testing.T) {
	a := NewAllocator(1)
	if ids := a.Reserve(0); len(ids) != 0 {
		t.Errorf("Reserve(0) returned %d IDs", len(ids))
	}
	if got := a.Peek(); got != 1 {
		t.Errorf("Peek() after Reserve(0) = %d, want 1", got)
	}
}

func TestAllocatorReserveNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Reserve(-1) should panic")
		}
	}()
	NewAllocator(1).Reserve(-1)
}

func TestInferMaxRevisionIDEmpty(t *testing.T) {
	d := &doc.Document{Blocks: []doc.Block{
		&doc.Paragraph{Content: []doc.ParagraphContent{doc.NewTextRun("plain", nil)}},
	}}
	if got := InferMaxRevisionID(d); got != 0 {
		t.Errorf("InferMaxRevisionID = %d, want 0", got)
	}
}

// Fixture with an insertion, a nested run property change, and a moveTo
// inside a table carrying row and cell structural changes.
func nestedRevisionFixture() *doc.Document {
	return &doc.Document{Blocks: []doc.Block{
		&doc.Paragraph{Content: []doc.ParagraphContent{
			&doc.Insertion{
				Info:    doc.TrackedChangeInfo{ID: 7, Author: "a"},
				Content: []doc.ParagraphContent{doc.NewTextRun("new", nil)},
			},
		}},
		&doc.Table{Rows: []*doc.TableRow{{
			Change: &doc.TableChange{Kind: doc.TableRowInsert, Info: doc.TrackedChangeInfo{ID: 19}},
			Cells: []*doc.TableCell{{
				Change: &doc.TableChange{Kind: doc.TableCellMerge, Info: doc.TrackedChangeInfo{ID: 23}},
				Blocks: []doc.Block{
					&doc.Paragraph{Content: []doc.ParagraphContent{
						&doc.Run{
							PropertyChanges: []*doc.RunPropertyChange{{Info: doc.TrackedChangeInfo{ID: 11}}},
							Content:         []doc.InlineContent{&doc.Text{Value: "cell"}},
						},
						&doc.MoveTo{
							Info:    doc.TrackedChangeInfo{ID: 15},
							Content: []doc.ParagraphContent{doc.NewTextRun("moved", nil)},
						},
					}},
				},
			}},
		}}},
	}}
}

func TestInferMaxRevisionIDNestedTable(t *testing.T) {
	if got := InferMaxRevisionID(nestedRevisionFixture()); got != 23 {
		t.Errorf("InferMaxRevisionID = %d, want 23", got)
	}
}

func TestNewAllocatorAfterDocument(t *testing.T) {
	a := NewAllocatorAfterDocument(nestedRevisionFixture())
	if got := a.Next(); got != 24 {
		t.Errorf("first ID after document = %d, want 24", got)
	}
}

func TestNewAllocatorAfterEmptyDocument(t *testing.T) {
	a := NewAllocatorAfterDocument(&doc.Document{})
	if got := a.Next(); got != 1 {
		t.Errorf("first ID after empty document = %d, want 1", got)
	}
}
