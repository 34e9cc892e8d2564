package entities

import (
	"strings"
	"testing"

	"github.com/goliatone/go-entities/internal/hydrate"
)

type hydratedPost struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

func TestRecordIntoDecodesEditedView(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft", "title": "Hello"}})
	if err := s.EditEntityRecord(KindPostType, "post", "1", Record{"status": "publish"}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got, err := RecordInto[hydratedPost](s, KindPostType, "post", "1")
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if got.ID != "1" || got.Status != "publish" || got.Title != "Hello" {
		t.Fatalf("expected edited view hydrated, got %+v", got)
	}
}

func TestRecordIntoMissingRecordErrors(t *testing.T) {
	s := newTestStore(t)
	_, err := RecordInto[hydratedPost](s, KindPostType, "post", "404")
	if err == nil || !strings.Contains(err.Error(), "postType/post/404") {
		t.Fatalf("expected labelled error, got %v", err)
	}
}

func TestRecordIntoAppliesHooks(t *testing.T) {
	s := newTestStore(t)
	receivePosts(t, s, []Record{{"id": "1", "status": "draft", "title": "hello"}})

	got, err := RecordInto[hydratedPost](s, KindPostType, "post", "1",
		hydrate.WithPostHook[hydratedPost](func(_ hydrate.Context, p *hydratedPost) error {
			p.Title = strings.ToUpper(p.Title)
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if got.Title != "HELLO" {
		t.Fatalf("expected post-hook applied, got %+v", got)
	}
}
