package entities

import "github.com/google/uuid"

// HistoryEntry is one recorded undo level: a snapshot of a record's
// non-transient edit bucket after an edit was applied.
type HistoryEntry struct {
	Kind       string
	Name       string
	RecordID   string
	SnapshotID string
	Edits      Record
}

// lockedPushHistory appends an undo level for the record. Pushing while the
// offset points into the past truncates the redo tail first. The very first
// level is preceded by a baseline entry capturing the pre-edit state, so one
// recorded edit already has somewhere to undo to. Caller holds the lock.
func (s *Store) lockedPushHistory(cfg Config, id string, prev, edits Record) {
	if s.historyOffset < 0 {
		keep := len(s.history) + s.historyOffset
		if keep < 0 {
			keep = 0
		}
		s.history = s.history[:keep]
		s.historyOffset = 0
	}
	if len(s.history) == 0 {
		s.history = append(s.history, HistoryEntry{
			Kind:       cfg.Kind,
			Name:       cfg.Name,
			RecordID:   id,
			SnapshotID: uuid.NewString(),
			Edits:      persistentEdits(cfg, prev),
		})
	}
	s.history = append(s.history, HistoryEntry{
		Kind:       cfg.Kind,
		Name:       cfg.Name,
		RecordID:   id,
		SnapshotID: uuid.NewString(),
		Edits:      persistentEdits(cfg, edits),
	})
}

func persistentEdits(cfg Config, edits Record) Record {
	persistent := Record{}
	for field, value := range edits {
		if cfg.isTransient(field) {
			continue
		}
		persistent[field] = value
	}
	return persistent
}

// GetUndoEdit returns the edit snapshot an undo would apply: the entry at
// index len-2+offset. The boolean is false when no such entry exists; the
// read path never clamps or panics on an out-of-range offset.
func (s *Store) GetUndoEdit() (HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lockedHistoryAt(len(s.history) - 2 + s.historyOffset)
}

// GetRedoEdit returns the edit snapshot a redo would apply: the entry at
// index len+offset.
func (s *Store) GetRedoEdit() (HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lockedHistoryAt(len(s.history) + s.historyOffset)
}

// HasUndo reports whether an undo edit exists at the current offset.
func (s *Store) HasUndo() bool {
	_, ok := s.GetUndoEdit()
	return ok
}

// HasRedo reports whether a redo edit exists at the current offset.
func (s *Store) HasRedo() bool {
	_, ok := s.GetRedoEdit()
	return ok
}

// HistoryOffset returns the current position in the undo stack: 0 means
// latest, negative values step backward.
func (s *Store) HistoryOffset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.historyOffset
}

// Undo steps the history back one level and applies that level's edit
// snapshot to its record. Returns false when there is nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lockedHistoryAt(len(s.history) - 2 + s.historyOffset)
	if !ok {
		return false
	}
	s.lockedApplyHistory(entry)
	s.historyOffset--
	return true
}

// Redo steps the history forward one level and applies that level's edit
// snapshot. Returns false when there is nothing to redo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lockedHistoryAt(len(s.history) + s.historyOffset)
	if !ok {
		return false
	}
	s.lockedApplyHistory(entry)
	s.historyOffset++
	return true
}

func (s *Store) lockedHistoryAt(index int) (HistoryEntry, bool) {
	if index < 0 || index >= len(s.history) {
		return HistoryEntry{}, false
	}
	entry := s.history[index]
	return HistoryEntry{
		Kind:       entry.Kind,
		Name:       entry.Name,
		RecordID:   entry.RecordID,
		SnapshotID: entry.SnapshotID,
		Edits:      entry.Edits.Clone(),
	}, true
}

// lockedApplyHistory replaces the non-transient portion of the record's edit
// bucket with the snapshot, preserving transient edits. Caller holds the lock.
func (s *Store) lockedApplyHistory(entry HistoryEntry) {
	cfg, ok := s.registry.Lookup(entry.Kind, entry.Name)
	if !ok {
		return
	}
	b := s.bucketFor(cfg.slug())
	next := Record{}
	for field, value := range b.edits[entry.RecordID] {
		if cfg.isTransient(field) {
			next[field] = value
		}
	}
	for field, value := range entry.Edits {
		next[field] = value
	}
	if len(next) == 0 {
		delete(b.edits, entry.RecordID)
		return
	}
	b.edits[entry.RecordID] = next
}
