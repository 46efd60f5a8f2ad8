package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	EntityDoctor       = "doctor"
	EntityAvailability = "availability"
)

// Cache is an in-process read-through cache for hot lookups such as
// doctor profiles and weekly availability.
type Cache struct {
	store *gocache.Cache
	onHit func(entity string, hit bool)
}

func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, cleanupInterval)}
}

// OnLookup installs a callback invoked after every Load.
func (c *Cache) OnLookup(fn func(entity string, hit bool)) {
	c.onHit = fn
}

func Key(entity string, id int64) string {
	return fmt.Sprintf("%s:%d", entity, id)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *Cache) Set(key string, value interface{}) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

func (c *Cache) Invalidate(keys ...string) {
	for _, key := range keys {
		c.store.Delete(key)
	}
}

// InvalidateEntity drops every entry cached for entity.
func (c *Cache) InvalidateEntity(entity string) {
	prefix := entity + ":"
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Load returns the cached value for entity/id or calls load and caches
// its result. Errors are never cached.
func Load[T any](c *Cache, entity string, id int64, load func() (T, error)) (T, error) {
	key := Key(entity, id)
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.report(entity, true)
			return typed, nil
		}
	}
	c.report(entity, false)

	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(key, value)
	return value, nil
}

func (c *Cache) report(entity string, hit bool) {
	if c.onHit != nil {
		c.onHit(entity, hit)
	}
}
