package entities

import (
	"fmt"
	"sync"
)

// WarnLogger receives non-fatal diagnostics: deprecation notices and activity
// hook failures.
type WarnLogger interface {
	Warn(msg string)
}

// WarnLoggerFunc adapts a function to WarnLogger.
type WarnLoggerFunc func(msg string)

// Warn implements WarnLogger.
func (f WarnLoggerFunc) Warn(msg string) {
	if f != nil {
		f(msg)
	}
}

// WithWarnLogger attaches a diagnostics logger to the store.
func WithWarnLogger(logger WarnLogger) Option {
	return func(cfg *storeConfig) {
		cfg.warn = logger
	}
}

// deprecationWarnings emits each deprecation notice once per store.
type deprecationWarnings struct {
	mu     sync.Mutex
	warned map[string]bool
	warn   WarnLogger
}

func newDeprecationWarnings(warn WarnLogger) *deprecationWarnings {
	return &deprecationWarnings{
		warned: map[string]bool{},
		warn:   warn,
	}
}

func (d *deprecationWarnings) notice(name, replacement string) {
	if d == nil || d.warn == nil {
		return
	}
	d.mu.Lock()
	seen := d.warned[name]
	d.warned[name] = true
	d.mu.Unlock()
	if seen {
		return
	}
	d.warn.Warn(fmt.Sprintf("entities: %s is deprecated, use %s", name, replacement))
}

// GetCurrentUser returns the authenticated user record.
//
// Deprecated: use CurrentUser.
func (s *Store) GetCurrentUser() Record {
	s.deprecated.notice("GetCurrentUser", "CurrentUser")
	return s.CurrentUser()
}

// GetCurrentUserID returns the authenticated user's primary key as a string,
// empty when no user landed.
//
// Deprecated: read the key off CurrentUser instead.
func (s *Store) GetCurrentUserID() string {
	s.deprecated.notice("GetCurrentUserID", "CurrentUser")
	user := s.CurrentUser()
	if user == nil {
		return ""
	}
	return recordKeyString(user[defaultKeyField])
}
