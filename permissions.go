package entities

import "strings"

// PermissionKey composes the cache key for a capability check by joining the
// non-empty (action, resource, id) segments with "/".
func PermissionKey(action, resource, id string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{action, resource, id} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "/")
}

// ReceiveUserPermission lands a resolved capability check in the cache.
func (s *Store) ReceiveUserPermission(key string, allowed bool) {
	s.mu.Lock()
	s.permissions[key] = allowed
	s.mu.Unlock()
}

// CanUser reads a cached capability check. The second return is false while
// the check is unknown or still in flight; absence never means denied.
func (s *Store) CanUser(action, resource, id string) (allowed, known bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	allowed, known = s.permissions[PermissionKey(action, resource, id)]
	return allowed, known
}
