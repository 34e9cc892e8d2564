package entities

import (
	"reflect"
	"testing"
)

func TestGetEditedEntityRecordOverlay(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{
		"id":     "1",
		"status": "draft",
		"title":  map[string]any{"raw": "A", "rendered": "<p>A</p>"},
	}})
	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"title": "B"}); err != nil {
		t.Fatalf("unexpected error editing: %v", err)
	}

	edited := s.GetEditedEntityRecord(KindPostType, "post", "1")
	if edited["title"] != "B" {
		t.Fatalf("expected edit to win over raw title, got %v", edited["title"])
	}
	if edited["status"] != "draft" {
		t.Fatalf("expected untouched field to keep raw value, got %v", edited["status"])
	}

	raw := s.GetRawEntityRecord(KindPostType, "post", "1")
	if raw["title"] != "A" {
		t.Fatalf("expected raw view to surface raw sub-value, got %v", raw["title"])
	}
}

func TestGetEditedEntityRecordFromEditsOnly(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetEditedEntityRecord(KindPostType, "post", "1"); got != nil {
		t.Fatalf("expected nil before any state lands, got %v", got)
	}
	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"title": "Draft title"}); err != nil {
		t.Fatalf("unexpected error editing: %v", err)
	}
	edited := s.GetEditedEntityRecord(KindPostType, "post", "1")
	if edited == nil || edited["title"] != "Draft title" {
		t.Fatalf("expected edits-only record, got %v", edited)
	}
}

func TestGetEntityRecordsSortedComplete(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, loadFixture[[]Record](t, "post_records.json"))
	receivePosts(t, s, []Record{{"id": "3", "partial": true}}, Query{Fields: []string{"partial"}})

	records := s.GetEntityRecords(KindPostType, "post")
	if len(records) != 2 {
		t.Fatalf("expected only complete records, got %d", len(records))
	}
	if records[0]["id"] != "1" || records[1]["id"] != "2" {
		t.Fatalf("expected records ordered by id, got %v", records)
	}
}

func TestSelectorMemoization(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	first := s.GetEditedEntityRecord(KindPostType, "post", "1")
	second := s.GetEditedEntityRecord(KindPostType, "post", "1")
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Fatalf("expected identical result reference while deps are unchanged")
	}

	// Unrelated state changes must not invalidate the memo entry.
	s.ReceiveCurrentUser(Record{"id": "9"})
	third := s.GetEditedEntityRecord(KindPostType, "post", "1")
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(third).Pointer() {
		t.Fatalf("expected unrelated change to keep the memoized reference")
	}

	// A new fetch of the same entity replaces the item slice and recomputes.
	receivePosts(t, s, []Record{{"id": "1", "status": "publish"}})
	fourth := s.GetEditedEntityRecord(KindPostType, "post", "1")
	if fourth["status"] != "publish" {
		t.Fatalf("expected recompute after entity state changed, got %v", fourth)
	}
}

func TestAutosaveSelectors(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetAutosaves("1"); got != nil {
		t.Fatalf("expected nil before autosaves land, got %v", got)
	}
	s.ReceiveAutosaves("1", []Record{
		{"id": "a1", "author": "11", "title": "first"},
		{"id": "a2", "author": "12", "title": "second"},
	})

	all := s.GetAutosaves("1")
	if len(all) != 2 {
		t.Fatalf("expected two autosaves, got %d", len(all))
	}
	autosave, ok := s.GetAutosave("1", "12")
	if !ok || autosave["title"] != "second" {
		t.Fatalf("expected author-matched autosave, got %v", autosave)
	}
	if _, ok := s.GetAutosave("1", "404"); ok {
		t.Fatalf("expected missing author to report not found")
	}

	s.ReceiveAutosaves("2", nil)
	if got := s.GetAutosaves("2"); got == nil || len(got) != 0 {
		t.Fatalf("expected fetched-but-empty autosaves to be non-nil, got %v", got)
	}
}

func TestThemeAndGlobalStyles(t *testing.T) {
	s := newTestStore(t)
	s.ReceiveThemeSupports(Record{"wide": true})
	s.ReceiveCurrentTheme(Record{"stylesheet": "twenty"})
	s.ReceiveGlobalStyles("twenty", Record{"color": "blue"})

	if got := s.GetThemeSupports(); got["wide"] != true {
		t.Fatalf("unexpected theme supports: %v", got)
	}
	if got := s.GetCurrentTheme(); got["stylesheet"] != "twenty" {
		t.Fatalf("unexpected current theme: %v", got)
	}
	if got := s.GetGlobalStyles("twenty"); got["color"] != "blue" {
		t.Fatalf("unexpected global styles: %v", got)
	}
	if got := s.GetGlobalStyles("other"); got != nil {
		t.Fatalf("expected nil for unknown stylesheet, got %v", got)
	}
}
