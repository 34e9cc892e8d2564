package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	entities "github.com/goliatone/go-entities"
)

// MemorySource is a minimal in-memory Source implementation intended for tests
// and examples. It uses Ref.Identifier() as its deterministic key and issues a
// fresh ETag on every save.
type MemorySource struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	record entities.Record
	meta   Meta
}

func NewMemorySource() *MemorySource {
	return &MemorySource{records: map[string]memoryRecord{}}
}

func (s *MemorySource) Get(_ context.Context, ref Ref) (entities.Record, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	stored, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return stored.record.Clone(), cloneMeta(stored.meta), true, nil
}

func (s *MemorySource) List(_ context.Context, kind, name string) ([]entities.Record, error) {
	if kind == "" || name == "" {
		return nil, fmt.Errorf("remote: list requires kind and name, got %q/%q", kind, name)
	}
	prefix := kind + "/" + name + "/"

	s.mu.RLock()
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]entities.Record, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.records[key].record.Clone())
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *MemorySource) Save(_ context.Context, ref Ref, record entities.Record, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.records[key]; ok && meta.ETag != "" && stored.meta.ETag != meta.ETag {
		return Meta{}, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, stored.meta.ETag, meta.ETag)
	}

	saved := cloneMeta(meta)
	saved.ETag = uuid.NewString()
	if saved.SnapshotID == "" {
		saved.SnapshotID = uuid.NewString()
	}
	saved.UpdatedAt = time.Now()
	s.records[key] = memoryRecord{record: record.Clone(), meta: saved}
	return cloneMeta(saved), nil
}

func (s *MemorySource) Delete(_ context.Context, ref Ref, meta Meta) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.records[key]
	if !ok {
		return nil
	}
	if meta.ETag != "" && stored.meta.ETag != meta.ETag {
		return fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, stored.meta.ETag, meta.ETag)
	}
	delete(s.records, key)
	return nil
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
