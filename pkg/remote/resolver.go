package remote

import (
	"context"
	"fmt"
	"sync"

	entities "github.com/goliatone/go-entities"
)

// Selector names used to key resolution status on the store.
const (
	SelectorGetEntityRecord  = "getEntityRecord"
	SelectorGetEntityRecords = "getEntityRecords"
)

// Resolver drives the store's resolution lifecycle around Source fetches. It
// remembers the last Meta seen per record so subsequent saves and deletes
// carry the current ETag.
type Resolver struct {
	Store  *entities.Store
	Source Source

	mu   sync.Mutex
	meta map[string]Meta
}

// NewResolver constructs a resolver over store and source.
func NewResolver(store *entities.Store, source Source) *Resolver {
	return &Resolver{
		Store:  store,
		Source: source,
		meta:   map[string]Meta{},
	}
}

// ResolveRecord fetches one record, lands it in the store, and returns the
// cached result. Resolution status for getEntityRecord is updated through the
// whole cycle.
func (r *Resolver) ResolveRecord(ctx context.Context, kind, name, id string) (entities.Record, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	ref := Ref{Kind: kind, Name: name, ID: id}

	r.Store.StartResolution(SelectorGetEntityRecord, kind, name, id)
	record, meta, ok, err := r.Source.Get(ctx, ref)
	if err != nil {
		err = fmt.Errorf("remote: get %s/%s/%s: %w", kind, name, id, err)
		r.Store.FailResolution(SelectorGetEntityRecord, err, kind, name, id)
		return nil, err
	}
	if ok {
		if err := r.Store.ReceiveEntityRecords(kind, name, []entities.Record{record}); err != nil {
			r.Store.FailResolution(SelectorGetEntityRecord, err, kind, name, id)
			return nil, err
		}
		r.rememberMeta(ref, meta)
	}
	r.Store.FinishResolution(SelectorGetEntityRecord, kind, name, id)
	return r.Store.GetEntityRecord(kind, name, id), nil
}

// ResolveRecords fetches every record of one entity type and lands them in the
// store.
func (r *Resolver) ResolveRecords(ctx context.Context, kind, name string) ([]entities.Record, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	r.Store.StartResolution(SelectorGetEntityRecords, kind, name)
	records, err := r.Source.List(ctx, kind, name)
	if err != nil {
		err = fmt.Errorf("remote: list %s/%s: %w", kind, name, err)
		r.Store.FailResolution(SelectorGetEntityRecords, err, kind, name)
		return nil, err
	}
	if err := r.Store.ReceiveEntityRecords(kind, name, records); err != nil {
		r.Store.FailResolution(SelectorGetEntityRecords, err, kind, name)
		return nil, err
	}
	r.Store.FinishResolution(SelectorGetEntityRecords, kind, name)
	return r.Store.GetEntityRecords(kind, name), nil
}

// SaveEditedRecord persists the edited view of one record through the source,
// settling the store's save state either way. Autosaves keep pending edits
// alive in the store.
func (r *Resolver) SaveEditedRecord(ctx context.Context, kind, name, id string, isAutosave bool) error {
	if err := r.check(); err != nil {
		return err
	}
	record := r.Store.GetEditedEntityRecord(kind, name, id)
	if record == nil {
		return fmt.Errorf("remote: no record cached for %s/%s/%s", kind, name, id)
	}
	ref := Ref{Kind: kind, Name: name, ID: id}

	if err := r.Store.SaveEntityRecordStart(kind, name, id, isAutosave); err != nil {
		return err
	}
	meta, err := r.Source.Save(ctx, ref, record, r.lastMeta(ref))
	if err != nil {
		err = fmt.Errorf("remote: save %s/%s/%s: %w", kind, name, id, err)
		if finishErr := r.Store.SaveEntityRecordFinish(kind, name, id, nil, err); finishErr != nil {
			return finishErr
		}
		return err
	}
	r.rememberMeta(ref, meta)
	return r.Store.SaveEntityRecordFinish(kind, name, id, record, nil)
}

// DeleteRecord deletes one record through the source, settling the store's
// delete state either way.
func (r *Resolver) DeleteRecord(ctx context.Context, kind, name, id string) error {
	if err := r.check(); err != nil {
		return err
	}
	ref := Ref{Kind: kind, Name: name, ID: id}

	if err := r.Store.DeleteEntityRecordStart(kind, name, id); err != nil {
		return err
	}
	if err := r.Source.Delete(ctx, ref, r.lastMeta(ref)); err != nil {
		err = fmt.Errorf("remote: delete %s/%s/%s: %w", kind, name, id, err)
		if finishErr := r.Store.DeleteEntityRecordFinish(kind, name, id, err); finishErr != nil {
			return finishErr
		}
		return err
	}
	r.forgetMeta(ref)
	return r.Store.DeleteEntityRecordFinish(kind, name, id, nil)
}

func (r *Resolver) check() error {
	if r.Store == nil {
		return fmt.Errorf("remote: store is required")
	}
	if r.Source == nil {
		return fmt.Errorf("remote: source is required")
	}
	return nil
}

func (r *Resolver) rememberMeta(ref Ref, meta Meta) {
	key, err := ref.Identifier()
	if err != nil {
		return
	}
	r.mu.Lock()
	r.meta[key] = meta
	r.mu.Unlock()
}

func (r *Resolver) lastMeta(ref Ref) Meta {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meta[key]
}

func (r *Resolver) forgetMeta(ref Ref) {
	key, err := ref.Identifier()
	if err != nil {
		return
	}
	r.mu.Lock()
	delete(r.meta, key)
	r.mu.Unlock()
}
