// Package lookup loads the three reference collections (vehicles,
// operators, event types) once per session and resolves log record
// references to display names and identifiers.
package lookup

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/pitwall/paddock/internal/mcapd"
)

// Source is the subset of the backend API the cache needs.
type Source interface {
	FetchVehicles(ctx context.Context) ([]mcapd.LookupEntity, error)
	FetchOperators(ctx context.Context) ([]mcapd.LookupEntity, error)
	FetchEventTypes(ctx context.Context) ([]mcapd.LookupEntity, error)
}

// Kind selects one of the three lookup collections.
type Kind int

const (
	Vehicles Kind = iota
	Operators
	EventTypes
)

// Cache is an in-memory view of the lookup collections. It is built once by
// Load and read-only afterwards, so it is safe for concurrent readers.
type Cache struct {
	collections [3][]mcapd.LookupEntity
	byID        [3]map[int64]string
}

// Load fetches the three collections concurrently. Each fetch fails
// independently: an unreachable collection is logged and stays empty, it
// never aborts the others.
func Load(ctx context.Context, src Source) *Cache {
	fetches := []struct {
		kind  Kind
		label string
		fetch func(context.Context) ([]mcapd.LookupEntity, error)
	}{
		{Vehicles, "vehicles", src.FetchVehicles},
		{Operators, "operators", src.FetchOperators},
		{EventTypes, "event types", src.FetchEventTypes},
	}

	cache := &Cache{}
	var wg sync.WaitGroup
	for _, f := range fetches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entities, err := f.fetch(ctx)
			if err != nil {
				log.Printf("lookup fetch for %s failed: %v", f.label, err)
				return
			}
			cache.collections[f.kind] = entities
		}()
	}
	wg.Wait()

	for kind, entities := range cache.collections {
		index := make(map[int64]string, len(entities))
		for _, e := range entities {
			index[e.ID] = e.Name
		}
		cache.byID[kind] = index
	}
	return cache
}

// Entities returns the collection for a kind, in server order.
func (c *Cache) Entities(kind Kind) []mcapd.LookupEntity {
	if c == nil {
		return nil
	}
	return c.collections[kind]
}

// Name resolves a record reference to a display name: the inline name when
// present, else a lookup by identifier, else "N/A".
func (c *Cache) Name(kind Kind, ref mcapd.EntityRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	if c != nil && ref.ID != 0 {
		if name, ok := c.byID[kind][ref.ID]; ok {
			return name
		}
	}
	return "N/A"
}

// IDString resolves a reference to its identifier as a string for form
// binding. An inline name is resolved by linear search across all three
// collections; an unresolvable reference yields "".
func (c *Cache) IDString(ref mcapd.EntityRef) string {
	if ref.ID != 0 {
		return strconv.FormatInt(ref.ID, 10)
	}
	if c == nil || ref.Name == "" {
		return ""
	}
	for _, collection := range c.collections {
		for _, e := range collection {
			if e.Name == ref.Name {
				return strconv.FormatInt(e.ID, 10)
			}
		}
	}
	return ""
}
