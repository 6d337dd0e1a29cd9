// Package stationcache is the C4 station-code cache: a lazy,
// write-through memoisation of city -> railway station code, scoped to a
// single query run.
package stationcache

import "sync"

// Map is a generic wrapper around sync.Map, avoiding type assertions at
// call sites. Safe for concurrent use by multiple goroutines.
type Map[K comparable, V any] struct {
	m sync.Map
}

// Load returns the value stored for key, if any.
func (m *Map[K, V]) Load(key K) (V, bool) {
	v, ok := m.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Store sets the value for key.
func (m *Map[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

// Lookup resolves a batch of cities to their station codes, calling
// provider only for the cities not already cached. An empty string
// result for a city is itself cached and means "no Chinese station code"
// (spec.md §4.4) — downstream consumers treat that as "international,
// train impossible" rather than retrying the lookup.
type Lookup func(cities []string) (map[string]string, error)

// Cache is the station-code cache for a single query run.
type Cache struct {
	codes Map[string, string]
}

// New returns an empty station-code cache.
func New() *Cache {
	return &Cache{}
}

// Resolve returns the station code for each of cities, fetching any
// cache misses via a single batched lookup call. The returned map always
// has an entry for every requested city (possibly ""). The underlying
// cache holds no lock across the provider call: a concurrent Resolve for
// an overlapping city set may issue a duplicate lookup, which is
// harmless (write-through just overwrites with the same answer) and
// matches the source implementation's release-then-reacquire pattern.
func (c *Cache) Resolve(cities []string, lookup Lookup) (map[string]string, error) {
	result := make(map[string]string, len(cities))
	var missing []string

	for _, city := range cities {
		if code, ok := c.codes.Load(city); ok {
			result[city] = code
		} else {
			missing = append(missing, city)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := lookup(missing)
	if err != nil {
		return nil, err
	}

	for _, city := range missing {
		code := fetched[city] // zero value "" if provider omitted the city
		c.codes.Store(city, code)
		result[city] = code
	}
	return result, nil
}

// Get returns a single cached station code without triggering a lookup.
func (c *Cache) Get(city string) (string, bool) {
	return c.codes.Load(city)
}
