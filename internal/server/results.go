// File: internal/server/results.go
package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/icherkasov/reportgen/internal/render"
)

// resultCache holds generated document sets for a bounded time so download
// links on the results page keep working without re-rendering.
type resultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]resultEntry
	now     func() time.Time
}

type resultEntry struct {
	outputs   []render.Output
	expiresAt time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entries: make(map[string]resultEntry),
		now:     time.Now,
	}
}

// Put stores a fresh output set and returns its download ID. Expired entries
// are swept opportunistically; generation is rate limited, so the map stays
// small without a background janitor.
func (c *resultCache) Put(outputs []render.Output) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}

	id := uuid.NewString()
	c.entries[id] = resultEntry{outputs: outputs, expiresAt: now.Add(c.ttl)}
	return id
}

// Get returns the output for one format of a stored set.
func (c *resultCache) Get(id, format string) (render.Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || c.now().After(e.expiresAt) {
		return render.Output{}, false
	}
	for _, out := range e.outputs {
		if out.Format == format {
			return out, true
		}
	}
	return render.Output{}, false
}
