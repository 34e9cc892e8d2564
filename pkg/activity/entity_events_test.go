package activity

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildEntityEditedEvent(t *testing.T) {
	event := BuildEntityEditedEvent(EntityEventInput{
		ActorID:  "actor",
		Kind:     "postType",
		Name:     "post",
		RecordID: "42",
		Fields:   []string{"status", "title"},
	})

	if event.Verb != "entity.edited" {
		t.Fatalf("unexpected verb: %q", event.Verb)
	}
	if event.ObjectType != "postType/post" || event.ObjectID != "42" {
		t.Fatalf("unexpected object: %+v", event)
	}
	fields, ok := event.Metadata["fields"].([]string)
	if !ok || !reflect.DeepEqual(fields, []string{"status", "title"}) {
		t.Fatalf("unexpected fields metadata: %v", event.Metadata)
	}
}

func TestBuildEntitySavedEventAutosaveFlag(t *testing.T) {
	event := BuildEntitySavedEvent(EntityEventInput{
		Kind:       "postType",
		Name:       "post",
		RecordID:   "1",
		IsAutosave: true,
	})
	if event.Verb != "entity.saved" {
		t.Fatalf("unexpected verb: %q", event.Verb)
	}
	if event.Metadata["is_autosave"] != true {
		t.Fatalf("expected autosave flag in metadata, got %v", event.Metadata)
	}
}

func TestBuildEntitySaveFailedEventCarriesError(t *testing.T) {
	event := BuildEntitySaveFailedEvent(EntityEventInput{
		Kind:     "postType",
		Name:     "post",
		RecordID: "1",
		Err:      errors.New("boom"),
	})
	if event.Verb != "entity.save_failed" {
		t.Fatalf("unexpected verb: %q", event.Verb)
	}
	if event.Metadata["error"] != "boom" {
		t.Fatalf("expected error string in metadata, got %v", event.Metadata)
	}
}

func TestBuildEntityDeletedEventObjectIDFallback(t *testing.T) {
	event := BuildEntityDeletedEvent(EntityEventInput{
		Kind: "postType",
		Name: "post",
	})
	if event.ObjectID != "postType/post" {
		t.Fatalf("expected object id fallback to object type, got %q", event.ObjectID)
	}
	if event.Metadata != nil {
		t.Fatalf("expected no metadata when nothing to carry, got %v", event.Metadata)
	}
}
