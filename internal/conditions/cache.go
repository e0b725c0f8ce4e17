package conditions

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Cache memoizes predicate results within one evaluation pass, so a
// predicate shared by several rule sets is computed once. It is owned by a
// single EvaluationContext and never shared across requests.
type Cache struct {
	entries map[uint64]bool
	hits    uint64
}

// NewCache creates an empty per-pass cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]bool)}
}

// Get returns the memoized result for a key, if present.
func (c *Cache) Get(key uint64) (bool, bool) {
	v, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return v, ok
}

// Set stores a predicate result.
func (c *Cache) Set(key uint64, v bool) {
	c.entries[key] = v
}

// Len reports the number of memoized predicates.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Hits reports how many lookups were answered from the cache.
func (c *Cache) Hits() uint64 {
	return c.hits
}

// cacheKey hashes a deterministic serialization of the predicate and the
// item it is scoped to. encoding/json sorts map keys, so equal values hash
// equally regardless of construction order.
func cacheKey(typ, rule string, op Operator, value any, itemID int64) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(typ)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(rule)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(string(op))
	_, _ = d.WriteString("\x00")
	if encoded, err := json.Marshal(value); err == nil {
		_, _ = d.Write(encoded)
	}
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.FormatInt(itemID, 10))
	return d.Sum64()
}
