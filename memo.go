package entities

import (
	"reflect"
	"sync"
)

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// depsCache memoizes selector results per argument key. Each entry remembers
// the exact state slices the computation read; the entry is recomputed only
// when one of those dependencies changes identity. This keeps invalidation
// scoped to the sub-paths a selector actually reads instead of the whole
// state tree.
type depsCache struct {
	mu      sync.Mutex
	entries map[string]*depsEntry
}

type depsEntry struct {
	deps  []any
	value any
}

func newDepsCache() *depsCache {
	return &depsCache{entries: map[string]*depsEntry{}}
}

// lookup returns the cached value for key when deps match the recorded tuple,
// otherwise it runs compute and records the fresh tuple.
func (c *depsCache) lookup(key string, deps []any, compute func() any) any {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && sameDeps(entry.deps, deps) {
		value := entry.value
		c.mu.Unlock()
		return value
	}
	c.mu.Unlock()

	value := compute()

	c.mu.Lock()
	c.entries[key] = &depsEntry{deps: append([]any(nil), deps...), value: value}
	c.mu.Unlock()
	return value
}

func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameRef(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameRef compares two dependency values by reference identity for maps,
// slices, pointers, and funcs, and by equality for comparable scalars.
// Interface == on map/slice values would panic, hence the reflect detour.
func sameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Kind() != rb.Kind() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Len() == rb.Len() && (ra.Len() == 0 || ra.Pointer() == rb.Pointer())
	default:
		if !ra.Type().Comparable() || ra.Type() != rb.Type() {
			return false
		}
		return a == b
	}
}
