package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	entities "github.com/goliatone/go-entities"
)

var ErrNotImplemented = errors.New("remote: not implemented")

var ErrETagMismatch = errors.New("remote: etag mismatch")

// Ref identifies one persisted record of one entity type.
type Ref struct {
	Kind string
	Name string
	ID   string
}

// Meta is storage-owned metadata used for trace/audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Identifier returns the canonical storage key for the reference.
func (r Ref) Identifier() (string, error) {
	if r.Kind == "" || r.Name == "" {
		return "", fmt.Errorf("remote: ref requires kind and name, got %q/%q", r.Kind, r.Name)
	}
	if r.ID == "" {
		return "", fmt.Errorf("remote: ref %s/%s requires an id", r.Kind, r.Name)
	}
	return fmt.Sprintf("%s/%s/%s", r.Kind, r.Name, r.ID), nil
}

// Source loads and persists records for a single entity endpoint.
type Source interface {
	Get(ctx context.Context, ref Ref) (record entities.Record, meta Meta, ok bool, err error)
	List(ctx context.Context, kind, name string) ([]entities.Record, error)
	Save(ctx context.Context, ref Ref, record entities.Record, meta Meta) (Meta, error)
	Delete(ctx context.Context, ref Ref, meta Meta) error
}
