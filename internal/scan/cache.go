package scan

import (
	"sync"

	"github.com/cvegate/cvegate/pkg/vulndb"
)

// Cache deduplicates scan results within a single run. A nil or empty
// record set means the artifact was confirmed clean; the two states are
// told apart by set emptiness alone. The full records are kept so that
// a cache hit goes through the same severity policy as a fresh scan.
type Cache struct {
	mu      sync.Mutex
	results map[string][]vulndb.Record
}

func NewCache() *Cache {
	return &Cache{results: map[string][]vulndb.Record{}}
}

func (c *Cache) Exists(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.results[id]
	return ok
}

// Get returns the cached CVE ids for an identity. Valid only when
// Exists reported true; a clean artifact yields an empty set.
func (c *Cache) Get(id string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := []string{}
	for _, r := range c.results[id] {
		ids = append(ids, r.CVEID)
	}
	return ids
}

// Records returns the cached CVE records for an identity.
func (c *Cache) Records(id string) []vulndb.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.results[id]
}

// Add records the outcome for an identity, nil meaning clean. The first
// write wins; within a run every identity is scanned by at most one task.
func (c *Cache) Add(id string, records []vulndb.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.results[id]; ok {
		return
	}

	if records == nil {
		records = []vulndb.Record{}
	}
	c.results[id] = records
}
