package activity

import (
	"strings"
	"time"
)

// EntityEventInput describes the common fields for entity lifecycle events.
type EntityEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Kind       string
	Name       string
	RecordID   string
	Fields     []string
	IsAutosave bool
	Err        error
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildEntityEditedEvent constructs a normalized activity event for an applied
// edit.
func BuildEntityEditedEvent(input EntityEventInput) Event {
	return buildEntityEvent("entity.edited", input)
}

// BuildEntitySavedEvent constructs a normalized activity event for a
// successful save.
func BuildEntitySavedEvent(input EntityEventInput) Event {
	return buildEntityEvent("entity.saved", input)
}

// BuildEntitySaveFailedEvent constructs a normalized activity event for a
// failed save.
func BuildEntitySaveFailedEvent(input EntityEventInput) Event {
	return buildEntityEvent("entity.save_failed", input)
}

// BuildEntityDeletedEvent constructs a normalized activity event for a
// completed delete.
func BuildEntityDeletedEvent(input EntityEventInput) Event {
	return buildEntityEvent("entity.deleted", input)
}

func buildEntityEvent(verb string, input EntityEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if len(input.Fields) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["fields"] = append([]string{}, input.Fields...)
	}
	if input.IsAutosave {
		metadata = ensureMetadata(metadata)
		metadata["is_autosave"] = true
	}
	if input.Err != nil {
		metadata = ensureMetadata(metadata)
		metadata["error"] = input.Err.Error()
	}

	objectType := strings.TrimSpace(input.Kind)
	if name := strings.TrimSpace(input.Name); name != "" {
		objectType = objectType + "/" + name
	}

	objectID := strings.TrimSpace(input.RecordID)
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
