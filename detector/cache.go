package detector

import (
	"sync"

	nativeapps "github.com/pressline/oauth-nativeapps"
)

// Cache holds classification results per client for the lifetime of one
// processing unit. It is advisory: skipping it entirely is always
// correct, and an invalidated-then-recomputed entry is always safe to
// overwrite. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]nativeapps.ClassificationResult
}

// NewCache creates an empty classification cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]nativeapps.ClassificationResult)}
}

// Get returns the cached result for clientID, if present.
func (c *Cache) Get(clientID string) (nativeapps.ClassificationResult, bool) {
	if c == nil {
		return nativeapps.ClassificationResult{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[clientID]
	return result, ok
}

// Put stores a result for clientID.
func (c *Cache) Put(clientID string, result nativeapps.ClassificationResult) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[clientID] = result
	c.mu.Unlock()
}

// Invalidate drops the cached result for one client, typically after its
// registration was edited.
func (c *Cache) Invalidate(clientID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, clientID)
	c.mu.Unlock()
}

// InvalidateAll drops every cached result, typically after a policy
// configuration change.
func (c *Cache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]nativeapps.ClassificationResult)
	c.mu.Unlock()
}

// Len returns the number of cached entries, for tests and metrics.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
