package entities

import "sort"

// GetEntityRecord returns the best-known record for (kind, name, id) under
// the query's context: nil when no complete fetch has occurred and no field
// filter was requested, otherwise the stored item, reduced to the requested
// dotted-path fields when a filter is present. The returned record is owned
// by the cache; callers must not mutate it. Results are memoized on the exact
// item and completeness slices read, so unrelated state changes never
// invalidate them.
func (s *Store) GetEntityRecord(kind, name, id string, queries ...Query) Record {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return nil
	}
	query := firstQuery(queries)
	items, complete := s.contextSlices(cfg, query.context())

	key := "record\x1f" + cfg.slug() + "\x1f" + id + "\x1f" + query.cacheKey()
	result := s.recordMemo.lookup(key, []any{items, complete}, func() any {
		record, cached := items[id]
		if len(query.Fields) > 0 {
			if !cached {
				return Record(nil)
			}
			return filterFields(record, query.Fields)
		}
		if !cached || !complete[id] {
			return Record(nil)
		}
		return record
	})
	record, _ := result.(Record)
	return record
}

// GetEntityRecords returns every complete record cached for (kind, name)
// under the query's context, ordered by bucket key. A field filter reduces
// each record the same way GetEntityRecord does.
func (s *Store) GetEntityRecords(kind, name string, queries ...Query) []Record {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return nil
	}
	query := firstQuery(queries)
	items, complete := s.contextSlices(cfg, query.context())

	key := "records\x1f" + cfg.slug() + "\x1f" + query.cacheKey()
	result := s.recordMemo.lookup(key, []any{items, complete}, func() any {
		ids := make([]string, 0, len(items))
		for id := range items {
			if complete[id] {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		out := make([]Record, 0, len(ids))
		for _, id := range ids {
			record := items[id]
			if len(query.Fields) > 0 {
				record = filterFields(record, query.Fields)
			}
			out = append(out, record)
		}
		return out
	})
	records, _ := result.([]Record)
	return records
}

// GetRawEntityRecord returns the record with every raw-capable attribute
// replaced by its raw sub-value, falling back to the attribute itself when no
// raw form exists.
func (s *Store) GetRawEntityRecord(kind, name, id string, queries ...Query) Record {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return nil
	}
	query := firstQuery(queries)
	items, complete := s.contextSlices(cfg, query.context())

	key := "raw\x1f" + cfg.slug() + "\x1f" + id + "\x1f" + query.cacheKey()
	result := s.recordMemo.lookup(key, []any{items, complete}, func() any {
		record, cached := items[id]
		if !cached || !complete[id] {
			return Record(nil)
		}
		return rawView(cfg, record)
	})
	record, _ := result.(Record)
	return record
}

// GetEditedEntityRecord returns the raw view of the record with pending edits
// overlaid: edits win wholly on key collision, untouched fields keep their
// raw values. Recomputed only when the underlying record, its completeness
// flag, or the edit bucket changes by reference.
func (s *Store) GetEditedEntityRecord(kind, name, id string, queries ...Query) Record {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return nil
	}
	query := firstQuery(queries)
	items, complete := s.contextSlices(cfg, query.context())
	edits := s.editsFor(cfg, id)

	key := cfg.slug() + "\x1f" + id + "\x1f" + query.cacheKey()
	result := s.editedMemo.lookup(key, []any{items, complete, edits}, func() any {
		record, cached := items[id]
		if (!cached || !complete[id]) && len(edits) == 0 {
			return Record(nil)
		}
		return OverlayEdits(rawView(cfg, record), edits)
	})
	record, _ := result.(Record)
	return record
}

// GetEntityRecordEdits returns the pending edit bucket for a record, nil when
// none exist.
func (s *Store) GetEntityRecordEdits(kind, name, id string) Record {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return nil
	}
	return s.editsFor(cfg, id)
}

// GetEntityRecordNonTransientEdits returns the pending edits with every
// transient field removed, the set that dirtiness and undo tracking consider.
func (s *Store) GetEntityRecordNonTransientEdits(kind, name, id string) Record {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return nil
	}
	edits := s.editsFor(cfg, id)
	if len(edits) == 0 {
		return nil
	}
	persistent := persistentEdits(cfg, edits)
	if len(persistent) == 0 {
		return nil
	}
	return persistent
}

// HasEditsForEntityRecord reports whether the record is dirty: currently
// saving, or holding at least one non-transient edit.
func (s *Store) HasEditsForEntityRecord(kind, name, id string) bool {
	if s.IsSavingEntityRecord(kind, name, id) {
		return true
	}
	return len(s.GetEntityRecordNonTransientEdits(kind, name, id)) > 0
}

// IsSavingEntityRecord reports whether a save is in flight for the record.
func (s *Store) IsSavingEntityRecord(kind, name, id string) bool {
	state, ok := s.saveStateFor(kind, name, id)
	return ok && state.Pending
}

// IsAutosavingEntityRecord reports whether the in-flight save is an autosave.
func (s *Store) IsAutosavingEntityRecord(kind, name, id string) bool {
	state, ok := s.saveStateFor(kind, name, id)
	return ok && state.Pending && state.IsAutosave
}

// IsDeletingEntityRecord reports whether a delete is in flight for the record.
func (s *Store) IsDeletingEntityRecord(kind, name, id string) bool {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.buckets[cfg.slug()]
	if b == nil {
		return false
	}
	return b.deleting[id].Pending
}

// GetLastEntitySaveError returns the error from the most recent settled save,
// nil when the save succeeded or never ran.
func (s *Store) GetLastEntitySaveError(kind, name, id string) error {
	state, ok := s.saveStateFor(kind, name, id)
	if !ok {
		return nil
	}
	return state.Err
}

// GetLastEntityDeleteError returns the error from the most recent settled
// delete.
func (s *Store) GetLastEntityDeleteError(kind, name, id string) error {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.buckets[cfg.slug()]
	if b == nil {
		return nil
	}
	return b.deleting[id].Err
}

// CurrentUser returns the authenticated user record, nil before it lands.
func (s *Store) CurrentUser() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

// GetThemeSupports returns the active theme's feature support map.
func (s *Store) GetThemeSupports() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themeSupports
}

// GetCurrentTheme returns the active theme record.
func (s *Store) GetCurrentTheme() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTheme
}

// GetGlobalStyles returns the global-styles record for a stylesheet
// identifier.
func (s *Store) GetGlobalStyles(stylesheet string) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalStyles[stylesheet]
}

// GetAutosaves returns the autosaves cached for a parent record, nil when the
// fetch has not landed. An empty non-nil slice means fetched and none exist.
func (s *Store) GetAutosaves(parentID string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autosaves[parentID]
}

// GetAutosave returns the autosave authored by authorID for a parent record.
func (s *Store) GetAutosave(parentID, authorID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, autosave := range s.autosaves[parentID] {
		if recordKeyString(autosave["author"]) == authorID {
			return autosave, true
		}
	}
	return nil, false
}

// contextSlices returns the item and completeness maps for one context. The
// references double as memo dependencies.
func (s *Store) contextSlices(cfg Config, ctx string) (map[string]Record, map[string]bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.buckets[cfg.slug()]
	if b == nil {
		return nil, nil
	}
	return b.items[ctx], b.complete[ctx]
}

func (s *Store) editsFor(cfg Config, id string) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.buckets[cfg.slug()]
	if b == nil {
		return nil
	}
	return b.edits[id]
}

func (s *Store) saveStateFor(kind, name, id string) (SaveState, bool) {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return SaveState{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.buckets[cfg.slug()]
	if b == nil {
		return SaveState{}, false
	}
	state, ok := b.saving[id]
	return state, ok
}
