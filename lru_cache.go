package entities

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUProgramCache is a bounded ProgramCache backed by a hashicorp LRU. It
// keeps compiled-program memory from growing with the number of distinct
// expressions seen over an editing session.
type LRUProgramCache struct {
	inner *lru.Cache[string, any]
}

// NewLRUProgramCache constructs a cache holding at most size programs.
func NewLRUProgramCache(size int) (*LRUProgramCache, error) {
	inner, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &LRUProgramCache{inner: inner}, nil
}

// Get implements ProgramCache.
func (c *LRUProgramCache) Get(key string) (any, bool) {
	if c == nil || c.inner == nil {
		return nil, false
	}
	return c.inner.Get(key)
}

// Set implements ProgramCache.
func (c *LRUProgramCache) Set(key string, value any) {
	if c == nil || c.inner == nil {
		return
	}
	c.inner.Add(key, value)
}
