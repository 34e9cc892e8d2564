package entities

import "sort"

// RecordIdentity describes one record in a dirty or being-saved listing. Key
// is read from the record field the config names as primary key (falling back
// to "id"), not from the string-coerced bucket key, so numeric keys keep
// their type.
type RecordIdentity struct {
	Key   any
	Title string
	Name  string
	Kind  string
}

// DirtyEntityRecords lists every record that is currently saving or holds at
// least one non-transient edit, in config registration order.
func (s *Store) DirtyEntityRecords() []RecordIdentity {
	return s.classifyRecords(func(cfg Config, b *bucket, id string) bool {
		if b.saving[id].Pending {
			return true
		}
		return len(persistentEdits(cfg, b.edits[id])) > 0
	})
}

// EntityRecordsBeingSaved lists every record with a save in flight, in config
// registration order.
func (s *Store) EntityRecordsBeingSaved() []RecordIdentity {
	return s.classifyRecords(func(_ Config, b *bucket, id string) bool {
		return b.saving[id].Pending
	})
}

func (s *Store) classifyRecords(match func(Config, *bucket, string) bool) []RecordIdentity {
	type candidate struct {
		cfg Config
		id  string
	}

	s.mu.RLock()
	var candidates []candidate
	for _, cfg := range s.registry.Ordered() {
		b := s.buckets[cfg.slug()]
		if b == nil {
			continue
		}
		seen := map[string]bool{}
		for id := range b.edits {
			seen[id] = true
		}
		for id := range b.saving {
			seen[id] = true
		}
		ids := make([]string, 0, len(seen))
		for id := range seen {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if match(cfg, b, id) {
				candidates = append(candidates, candidate{cfg: cfg, id: id})
			}
		}
	}
	s.mu.RUnlock()

	// Title evaluation may call into consumer-registered functions; keep it
	// outside the lock.
	out := make([]RecordIdentity, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, RecordIdentity{
			Key:   s.recordKeyValue(c.cfg, c.id),
			Title: s.EntityRecordTitle(c.cfg.Kind, c.cfg.Name, c.id),
			Name:  c.cfg.Name,
			Kind:  c.cfg.Kind,
		})
	}
	return out
}

// recordKeyValue reads the typed primary-key value off the cached record,
// falling back to the bucket key string when no record has landed yet.
func (s *Store) recordKeyValue(cfg Config, id string) any {
	s.mu.RLock()
	b := s.buckets[cfg.slug()]
	var record Record
	if b != nil {
		record = s.lockedAnyContextItem(b, id)
	}
	s.mu.RUnlock()
	if record != nil {
		if value, ok := record[cfg.keyField()]; ok {
			return value
		}
	}
	return id
}
