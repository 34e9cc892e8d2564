package entities

import "strings"

// getPath walks a dotted path through nested map values. The second return is
// false when any segment is missing or a non-map value is traversed.
func getPath(value any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		var container map[string]any
		switch typed := current.(type) {
		case map[string]any:
			container = typed
		case Record:
			container = typed
		default:
			return nil, false
		}
		next, ok := container[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// setPath re-nests value into dst under the dotted path, creating intermediate
// maps as needed. Existing intermediate maps are reused, so sibling paths from
// one filter compose into a single nested object.
func setPath(dst Record, path string, value any) {
	segments := strings.Split(path, ".")
	current := map[string]any(dst)
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// filterFields reduces record to exactly the requested dotted paths, each
// re-nested into a fresh result object. Paths absent from the record are
// simply omitted.
func filterFields(record Record, fields []string) Record {
	out := Record{}
	for _, path := range fields {
		if value, ok := getPath(record, path); ok {
			setPath(out, path, value)
		}
	}
	return out
}
