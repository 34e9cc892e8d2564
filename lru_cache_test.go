package entities

import "testing"

func TestLRUProgramCacheEvictsOldest(t *testing.T) {
	cache, err := NewLRUProgramCache(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3)

	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if value, ok := cache.Get("c"); !ok || value != 3 {
		t.Fatalf("expected newest entry retained, got %v", value)
	}
}

func TestLRUProgramCacheBacksEvaluator(t *testing.T) {
	cache, err := NewLRUProgramCache(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := newTestStore(t, WithProgramCache(cache))
	receivePosts(t, s, []Record{{"id": "1", "status": "draft"}})

	if _, err := s.EvaluateRecordExpr(KindPostType, "post", "1", `status == "draft"`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.Get(`status == "draft"`); !ok {
		t.Fatalf("expected compiled program cached under the expression")
	}
}
