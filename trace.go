package entities

import (
	"encoding/json"
)

// Layer names used in trace provenance, ordered from highest to lowest
// precedence.
const (
	LayerEdits    = "edits"
	LayerAutosave = "autosave"
	LayerRaw      = "raw"
)

// Trace captures provenance information for a field lookup across the layers
// that could produce the effective value.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how one layer contributed to a traced path.
type Provenance struct {
	Layer      string `json:"layer"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Path       string `json:"path"`
	Value      any    `json:"value,omitempty"`
	Found      bool   `json:"found"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// ResolveFieldWithTrace reads a dotted path off one record and reports which
// layer produced the value: pending edits first, then the most recent
// autosave, then the raw persisted record. The effective value comes from the
// highest-precedence layer where the path resolves.
func (s *Store) ResolveFieldWithTrace(kind, name, id, path string) (any, Trace, error) {
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return nil, Trace{}, err
	}

	s.mu.RLock()
	var edits, raw Record
	if b := s.buckets[cfg.slug()]; b != nil {
		edits = b.edits[id]
		raw = rawView(cfg, s.lockedAnyContextItem(b, id))
	}
	var autosave Record
	if saved := s.autosaves[id]; len(saved) > 0 {
		autosave = saved[len(saved)-1]
	}
	snapshotID := s.lockedLatestSnapshotID(cfg, id)
	s.mu.RUnlock()

	trace := Trace{Path: path}
	var effective any
	resolved := false
	for _, layer := range []struct {
		name       string
		source     Record
		snapshotID string
	}{
		{LayerEdits, edits, snapshotID},
		{LayerAutosave, autosave, ""},
		{LayerRaw, raw, ""},
	} {
		value, found := getPath(layer.source, path)
		trace.Layers = append(trace.Layers, Provenance{
			Layer:      layer.name,
			SnapshotID: layer.snapshotID,
			Path:       path,
			Value:      value,
			Found:      found,
		})
		if found && !resolved {
			effective = value
			resolved = true
		}
	}
	return effective, trace, nil
}

// lockedLatestSnapshotID returns the snapshot identifier of the newest undo
// level recorded for the record, empty when none exists. Caller holds the lock.
func (s *Store) lockedLatestSnapshotID(cfg Config, id string) string {
	for i := len(s.history) - 1; i >= 0; i-- {
		entry := s.history[i]
		if entry.Kind == cfg.Kind && entry.Name == cfg.Name && entry.RecordID == id {
			return entry.SnapshotID
		}
	}
	return ""
}
