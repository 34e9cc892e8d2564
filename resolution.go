package entities

import (
	"fmt"
	"strings"
)

type resolutionState int

const (
	resolutionResolving resolutionState = iota + 1
	resolutionFinished
	resolutionFailed
)

type resolutionStatus struct {
	state resolutionState
	err   error
}

// StartResolution marks a selector invocation, keyed by its argument tuple,
// as in flight.
func (s *Store) StartResolution(selector string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byArgs, ok := s.resolution[selector]
	if !ok {
		byArgs = map[string]*resolutionStatus{}
		s.resolution[selector] = byArgs
	}
	byArgs[argsKey(args)] = &resolutionStatus{state: resolutionResolving}
}

// FinishResolution marks a selector invocation as successfully resolved.
func (s *Store) FinishResolution(selector string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byArgs, ok := s.resolution[selector]
	if !ok {
		byArgs = map[string]*resolutionStatus{}
		s.resolution[selector] = byArgs
	}
	byArgs[argsKey(args)] = &resolutionStatus{state: resolutionFinished}
}

// FailResolution marks a selector invocation as failed, retaining the error.
func (s *Store) FailResolution(selector string, err error, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byArgs, ok := s.resolution[selector]
	if !ok {
		byArgs = map[string]*resolutionStatus{}
		s.resolution[selector] = byArgs
	}
	byArgs[argsKey(args)] = &resolutionStatus{state: resolutionFailed, err: err}
}

// IsResolving reports whether the selector invocation is in flight.
func (s *Store) IsResolving(selector string, args ...any) bool {
	status := s.resolutionFor(selector, args)
	return status != nil && status.state == resolutionResolving
}

// HasFinishedResolution reports whether the selector invocation settled,
// successfully or not.
func (s *Store) HasFinishedResolution(selector string, args ...any) bool {
	status := s.resolutionFor(selector, args)
	return status != nil && status.state != resolutionResolving
}

// GetResolutionError returns the failure recorded for the selector
// invocation, nil when it resolved cleanly or never ran.
func (s *Store) GetResolutionError(selector string, args ...any) error {
	status := s.resolutionFor(selector, args)
	if status == nil {
		return nil
	}
	return status.err
}

func (s *Store) resolutionFor(selector string, args []any) *resolutionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byArgs, ok := s.resolution[selector]
	if !ok {
		return nil
	}
	return byArgs[argsKey(args)]
}

// argsKey builds a stable identity for an argument tuple. The unit separator
// keeps adjacent string arguments from colliding.
func argsKey(args []any) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, "\x1f")
}
