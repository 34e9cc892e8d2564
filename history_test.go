package entities

import "testing"

func TestFirstEditRecordsUndoLevel(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	if s.HasUndo() || s.HasRedo() {
		t.Fatalf("expected empty history before any edit")
	}
	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"status": "publish"}); err != nil {
		t.Fatalf("unexpected error editing: %v", err)
	}

	if !s.HasUndo() {
		t.Fatalf("expected undo available after one recorded edit")
	}
	if s.HasRedo() {
		t.Fatalf("expected no redo at offset 0")
	}
	entry, ok := s.GetUndoEdit()
	if !ok {
		t.Fatalf("expected undo entry")
	}
	if entry.RecordID != "1" || len(entry.Edits) != 0 {
		t.Fatalf("expected pristine baseline entry, got %+v", entry)
	}
	if entry.SnapshotID == "" {
		t.Fatalf("expected snapshot id on history entries")
	}
}

func TestUndoRedoWalk(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	edit := func(status string) {
		t.Helper()
		if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"status": status}); err != nil {
			t.Fatalf("unexpected error editing: %v", err)
		}
	}
	status := func() any {
		t.Helper()
		return s.GetEditedEntityRecord(KindPostType, "post", "1")["status"]
	}

	edit("pending")
	edit("publish")
	if got := status(); got != "publish" {
		t.Fatalf("expected publish, got %v", got)
	}

	if !s.Undo() {
		t.Fatalf("expected undo to succeed")
	}
	if got := status(); got != "pending" {
		t.Fatalf("expected undo to restore pending, got %v", got)
	}
	if got := s.HistoryOffset(); got != -1 {
		t.Fatalf("expected offset -1 after undo, got %d", got)
	}

	if !s.Undo() {
		t.Fatalf("expected second undo to succeed")
	}
	if got := status(); got != "draft" {
		t.Fatalf("expected baseline to restore raw value, got %v", got)
	}

	if !s.Redo() {
		t.Fatalf("expected redo to succeed")
	}
	if got := status(); got != "pending" {
		t.Fatalf("expected redo to reapply pending, got %v", got)
	}
}

func TestUndoOutOfRangeIsSafe(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	if s.Undo() {
		t.Fatalf("expected undo on empty history to report false")
	}
	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"status": "publish"}); err != nil {
		t.Fatalf("unexpected error editing: %v", err)
	}
	if !s.Undo() {
		t.Fatalf("expected first undo to succeed")
	}
	if s.Undo() {
		t.Fatalf("expected exhausted undo to report false")
	}
	if _, ok := s.GetUndoEdit(); ok {
		t.Fatalf("expected no undo entry past the start of history")
	}
}

func TestNewEditTruncatesRedoTail(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	edit := func(status string) {
		t.Helper()
		if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"status": status}); err != nil {
			t.Fatalf("unexpected error editing: %v", err)
		}
	}

	edit("pending")
	edit("publish")
	if !s.Undo() {
		t.Fatalf("expected undo to succeed")
	}
	if !s.HasRedo() {
		t.Fatalf("expected redo available after undo")
	}

	edit("private")
	if s.HasRedo() {
		t.Fatalf("expected new edit to truncate the redo tail")
	}
	if got := s.HistoryOffset(); got != 0 {
		t.Fatalf("expected offset reset after truncation, got %d", got)
	}
}

func TestUndoPreservesTransientEdits(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"status": "publish"}); err != nil {
		t.Fatalf("unexpected error editing: %v", err)
	}
	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"selection": "b2"}); err != nil {
		t.Fatalf("unexpected error editing: %v", err)
	}

	if !s.Undo() {
		t.Fatalf("expected undo to succeed")
	}
	edits := s.GetEntityRecordEdits(KindPostType, "post", "1")
	if edits["selection"] != "b2" {
		t.Fatalf("expected transient edit preserved across undo, got %v", edits)
	}
	if _, ok := edits["status"]; ok {
		t.Fatalf("expected persistent edit removed by undo, got %v", edits)
	}
}

func TestUndoIgnoredEditsRecordNoLevel(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"status": "publish"}, WithUndoIgnored()); err != nil {
		t.Fatalf("unexpected error editing: %v", err)
	}
	if s.HasUndo() {
		t.Fatalf("expected undo-ignored edit to record no history level")
	}
	if !s.HasEditsForEntityRecord(KindPostType, "post", "1") {
		t.Fatalf("expected the edit itself to apply")
	}
}
