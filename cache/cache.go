package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is a TTL map. Values removed by expiry or Delete are handed to the
// eviction callback, which lets owners release resources they hold.
type Cache struct {
	cache *cache.Cache
}

func New(defaultExpiration, cleanupInterval time.Duration) *Cache {
	return &Cache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *Cache) Set(key string, value interface{}, expiration time.Duration) {
	c.cache.Set(key, value, expiration)
}

func (c *Cache) SetDefault(key string, value interface{}) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}

// Delete removes key, expired or not, and fires the eviction callback if it was present.
func (c *Cache) Delete(key string) {
	c.cache.Delete(key)
}

func (c *Cache) OnEvicted(f func(key string, value interface{})) {
	c.cache.OnEvicted(f)
}

func (c *Cache) ItemCount() int {
	return c.cache.ItemCount()
}

// Purge deletes every entry, firing the eviction callback for each.
func (c *Cache) Purge() {
	for key := range c.cache.Items() {
		c.cache.Delete(key)
	}
}
