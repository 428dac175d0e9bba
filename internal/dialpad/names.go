package dialpad

import (
	"sync"

	"github.com/partsline/opsconsole/internal/types"
)

// nameCache maps provider user ids to display names. It is filled
// opportunistically from fetched records and is read-mostly; a stale read is
// harmless because names for a given id do not change mid-run.
type nameCache struct {
	mu    sync.RWMutex
	names map[string]string
}

func newNameCache() *nameCache {
	return &nameCache{names: make(map[string]string)}
}

func (c *nameCache) observe(records []types.RawCall) {
	for _, r := range records {
		if r.Target == nil || r.Target.Type != types.TargetTypeUser {
			continue
		}
		id := string(r.Target.ID)
		if id == "" || r.Target.Name == "" {
			continue
		}
		c.mu.Lock()
		c.names[id] = r.Target.Name
		c.mu.Unlock()
	}
}

func (c *nameCache) get(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names[id]
}
