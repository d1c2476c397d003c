package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/openredline/redline/core/doc"
	"github.com/openredline/redline/core/errors"
)

func testDocument(texts ...string) *doc.Document {
	d := &doc.Document{Title: "test"}
	for _, s := range texts {
		d.Blocks = append(d.Blocks, &doc.Paragraph{
			Content: []doc.ParagraphContent{doc.NewTextRun(s, nil)},
		})
	}
	return d
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d := testDocument("Alpha", "Beta")
	hash, err := s.SaveSnapshot(ctx, "draft-1", d)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}

	loaded, err := s.LoadSnapshot(ctx, "draft-1")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Title != "test" {
		t.Errorf("Title = %q, want %q", loaded.Title, "test")
	}
	if got := loaded.PlainText(); got != "Alpha\nBeta" {
		t.Errorf("PlainText = %q, want %q", got, "Alpha\nBeta")
	}
}

func TestLoadSnapshotNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadSnapshot(context.Background(), "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveSnapshotEmptyLabel(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveSnapshot(context.Background(), "", testDocument("x"))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIdenticalContentSharesBlob(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d := testDocument("Shared content")
	h1, err := s.SaveSnapshot(ctx, "first", d)
	if err != nil {
		t.Fatalf("SaveSnapshot first: %v", err)
	}
	h2, err := s.SaveSnapshot(ctx, "second", d)
	if err != nil {
		t.Fatalf("SaveSnapshot second: %v", err)
	}
	if h1 != h2 {
		t.Errorf("identical documents hashed differently: %s vs %s", h1, h2)
	}

	infos, err := s.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(infos))
	}
	if infos[0].Hash != infos[1].Hash {
		t.Error("expected both labels to share one blob hash")
	}
}

func TestResaveLabelRepoints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveSnapshot(ctx, "draft", testDocument("old")); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := s.SaveSnapshot(ctx, "draft", testDocument("new")); err != nil {
		t.Fatalf("SaveSnapshot resave: %v", err)
	}

	loaded, err := s.LoadSnapshot(ctx, "draft")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got := loaded.PlainText(); got != "new" {
		t.Errorf("PlainText = %q, want %q", got, "new")
	}
}

func TestListSnapshotsOrderedByLabel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, label := range []string{"charlie", "alpha", "bravo"} {
		if _, err := s.SaveSnapshot(ctx, label, testDocument(label)); err != nil {
			t.Fatalf("SaveSnapshot %s: %v", label, err)
		}
	}

	infos, err := s.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if len(infos) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(infos))
	}
	for i, label := range want {
		if infos[i].Label != label {
			t.Errorf("infos[%d].Label = %q, want %q", i, infos[i].Label, label)
		}
		if infos[i].SizeBytes <= 0 {
			t.Errorf("infos[%d].SizeBytes = %d, want > 0", i, infos[i].SizeBytes)
		}
	}
}

func TestDeleteSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveSnapshot(ctx, "doomed", testDocument("x")); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := s.DeleteSnapshot(ctx, "doomed"); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, err := s.LoadSnapshot(ctx, "doomed"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteSnapshot(ctx, "doomed"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	annotated := testDocument("annotated result")
	id, err := s.SaveRun(ctx, "before", "after", annotated, 4)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive run ID, got %d", id)
	}

	d, info, err := s.LoadRun(ctx, id)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if info.PrevLabel != "before" || info.CurrLabel != "after" {
		t.Errorf("labels = %q/%q, want before/after", info.PrevLabel, info.CurrLabel)
	}
	if info.Revisions != 4 {
		t.Errorf("Revisions = %d, want 4", info.Revisions)
	}
	if got := d.PlainText(); got != "annotated result" {
		t.Errorf("PlainText = %q, want %q", got, "annotated result")
	}
}

func TestLoadRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, _, err := s.LoadRun(context.Background(), 999)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.SaveRun(ctx, "a", "b", testDocument("first"), 1)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	id2, err := s.SaveRun(ctx, "b", "c", testDocument("second"), 2)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != id2 || runs[1].ID != id1 {
		t.Errorf("run order = [%d %d], want [%d %d]", runs[0].ID, runs[1].ID, id2, id1)
	}
}

func TestVacuumReclaimsOrphanedBlobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveSnapshot(ctx, "keep", testDocument("kept")); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := s.SaveSnapshot(ctx, "drop", testDocument("dropped")); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := s.DeleteSnapshot(ctx, "drop"); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}

	n, err := s.Vacuum(ctx)
	if err != nil {
		t.Fatalf("Vacuum: %v", err)
	}
	if n != 1 {
		t.Errorf("Vacuum reclaimed %d blobs, want 1", n)
	}

	if _, err := s.LoadSnapshot(ctx, "keep"); err != nil {
		t.Errorf("surviving snapshot unreadable after vacuum: %v", err)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	d := testDocument("stable")

	h1, body1, err := Hash(d)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, body2, err := Hash(d)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hash differs across calls: %s vs %s", h1, h2)
	}
	if string(body1) != string(body2) {
		t.Error("canonical body differs across calls")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}
