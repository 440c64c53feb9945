package trivia

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds generated question sets for the session lifetime. Entries are
// never invalidated: stable identity keeps a topic's questions and display
// name fixed once players have seen them.
type Cache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]QuestionSet
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]QuestionSet)}
}

// Get returns the cached set for key, if present.
func (c *Cache) Get(key string) (QuestionSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.entries[key]
	return set, ok
}

// GetOrCreate returns the cached set for key, invoking factory at most once
// per key even under concurrent callers.
func (c *Cache) GetOrCreate(ctx context.Context, key string, factory func(context.Context) QuestionSet) QuestionSet {
	if set, ok := c.Get(key); ok {
		return set
	}

	set, _, _ := c.group.Do(key, func() (interface{}, error) {
		if set, ok := c.Get(key); ok {
			return set, nil
		}
		set := factory(ctx)
		c.mu.Lock()
		c.entries[key] = set
		c.mu.Unlock()
		return set, nil
	})
	return set.(QuestionSet)
}

// Len reports the number of cached sets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
