package selectorcache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key identifies one cached selector resolution.
type Key struct {
	NodeType string
	NodeID   string
	Field    string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.NodeType, k.NodeID, k.Field)
}

// Cache stores previously resolved CSS selectors so a repeat run of
// the same node against the same page doesn't have to pay for another
// AI locate call. It is a pure performance optimization: every lookup
// miss just means falling back to the locator again, never a
// correctness failure.
type Cache interface {
	Get(ctx context.Context, key Key) (string, bool)
	Set(ctx context.Context, key Key, selector string) error
}

// New returns a Redis-backed Cache when addr is non-empty, otherwise
// an in-memory LRU cache bounded by maxEntries. Either way the TTL
// applies uniformly.
func New(addr string, ttl time.Duration, maxEntries int) Cache {
	if addr == "" {
		return newMemoryCache(ttl, maxEntries)
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &redisCache{client: client, ttl: ttl}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, key Key) (string, bool) {
	val, err := c.client.Get(ctx, key.String()).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key Key, selector string) error {
	return c.client.Set(ctx, key.String(), selector, c.ttl).Err()
}

// memoryCache is a bounded, TTL-expiring LRU used when no Redis
// address is configured — the dependency stays exercised by
// production code without being load-bearing for tests or for
// deployments that skip Redis entirely.
type memoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List
	entries    map[string]*list.Element
}

type memoryEntry struct {
	key       string
	selector  string
	expiresAt time.Time
}

func newMemoryCache(ttl time.Duration, maxEntries int) *memoryCache {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &memoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *memoryCache) Get(ctx context.Context, key Key) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	elem, ok := c.entries[k]
	if !ok {
		return "", false
	}
	entry := elem.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, k)
		return "", false
	}
	c.order.MoveToFront(elem)
	return entry.selector, true
}

func (c *memoryCache) Set(ctx context.Context, key Key, selector string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	if elem, ok := c.entries[k]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.selector = selector
		entry.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return nil
	}

	elem := c.order.PushFront(&memoryEntry{
		key:       k,
		selector:  selector,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.entries[k] = elem

	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*memoryEntry).key)
		}
	}
	return nil
}
