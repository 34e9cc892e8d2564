package entities

// Record is the normalized wire shape of one entity record. Values are the
// JSON-decoded forms the REST layer produces (strings, float64 numbers,
// nested map[string]any, []any).
type Record map[string]any

// Clone returns a deep copy of the record so cached state can never be
// mutated through a returned reference.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = cloneAny(value)
	}
	return out
}

func cloneAny(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[key] = cloneAny(nested)
		}
		return out
	case Record:
		return map[string]any(typed.Clone())
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = cloneAny(nested)
		}
		return out
	default:
		return value
	}
}

// OverlayEdits composes base and edits into a fresh record: every key present
// in edits wins wholly (shallow spread, no recursive merge), keys absent from
// edits keep their base values. Neither input is mutated.
func OverlayEdits(base, edits Record) Record {
	if len(base) == 0 && len(edits) == 0 {
		return Record{}
	}
	out := make(Record, len(base)+len(edits))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range edits {
		out[key] = value
	}
	return out
}

// rawView replaces every raw-capable attribute with its .raw sub-value,
// falling back to the attribute itself when no raw form is present.
func rawView(cfg Config, record Record) Record {
	if record == nil {
		return nil
	}
	out := make(Record, len(record))
	for key, value := range record {
		if cfg.isRawAttribute(key) {
			if nested, ok := value.(map[string]any); ok {
				if raw, ok := nested["raw"]; ok {
					out[key] = raw
					continue
				}
			}
		}
		out[key] = value
	}
	return out
}
