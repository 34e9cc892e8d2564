package entities

import (
	"reflect"
	"testing"
)

func TestRecordCloneIsDeep(t *testing.T) {
	original := Record{
		"id":    "1",
		"title": map[string]any{"raw": "Hello"},
		"tags":  []any{"a", "b"},
	}
	clone := original.Clone()

	clone["title"].(map[string]any)["raw"] = "Changed"
	clone["tags"].([]any)[0] = "z"

	if got := original["title"].(map[string]any)["raw"]; got != "Hello" {
		t.Fatalf("expected clone mutation to leave original untouched, got %v", got)
	}
	if got := original["tags"].([]any)[0]; got != "a" {
		t.Fatalf("expected clone mutation to leave original slice untouched, got %v", got)
	}
	if Record(nil).Clone() != nil {
		t.Fatalf("expected nil record to clone to nil")
	}
}

func TestOverlayEditsShallowWins(t *testing.T) {
	base := Record{
		"title":  "A",
		"status": "draft",
	}
	edits := Record{"title": "B"}

	merged := OverlayEdits(base, edits)
	if merged["title"] != "B" {
		t.Fatalf("expected edit to win on key collision, got %v", merged["title"])
	}
	if merged["status"] != "draft" {
		t.Fatalf("expected untouched field to keep base value, got %v", merged["status"])
	}
	if base["title"] != "A" || len(edits) != 1 {
		t.Fatalf("expected inputs to remain unmodified")
	}
}

func TestOverlayEditsReplacesNestedWholly(t *testing.T) {
	base := Record{"meta": map[string]any{"a": 1, "b": 2}}
	edits := Record{"meta": map[string]any{"a": 9}}

	merged := OverlayEdits(base, edits)
	meta, ok := merged["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected meta to stay a map, got %T", merged["meta"])
	}
	if _, exists := meta["b"]; exists {
		t.Fatalf("expected shallow overlay to replace nested value wholly, kept %v", meta)
	}
}

func TestRawView(t *testing.T) {
	cfg := Config{
		Kind:          KindPostType,
		Name:          "post",
		RawAttributes: []string{"title", "content"},
	}
	record := Record{
		"title":   map[string]any{"raw": "Hello", "rendered": "<p>Hello</p>"},
		"content": "plain",
		"meta":    map[string]any{"raw": "not-a-raw-attr"},
	}

	raw := rawView(cfg, record)
	if raw["title"] != "Hello" {
		t.Fatalf("expected raw sub-value for title, got %v", raw["title"])
	}
	if raw["content"] != "plain" {
		t.Fatalf("expected raw attribute without raw form to fall back, got %v", raw["content"])
	}
	if !reflect.DeepEqual(raw["meta"], record["meta"]) {
		t.Fatalf("expected non-raw attribute untouched, got %v", raw["meta"])
	}
	if rawView(cfg, nil) != nil {
		t.Fatalf("expected nil record to stay nil")
	}
}
