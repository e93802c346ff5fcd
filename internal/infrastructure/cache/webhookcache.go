package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultWebhookCacheSize bounds the number of cached credentials.
	DefaultWebhookCacheSize = 100
	// DefaultWebhookTTL is how long an unused credential stays cached.
	DefaultWebhookTTL = 30 * time.Minute
	// DefaultWebhookSweepInterval is the period of the expiry sweep.
	DefaultWebhookSweepInterval = 5 * time.Minute
)

// WebhookCredential is one delivery credential for a tenant's channel.
type WebhookCredential struct {
	WebhookID string
	Token     string
	ChannelID string
}

// WebhookCache is a bounded in-memory LRU cache of delivery credentials with
// per-entry TTL. Reads refresh both recency and the TTL window, so credentials
// in steady use never expire; idle ones age out via the sweep or lazily on
// access. Safe for concurrent use.
type WebhookCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	now      func() time.Time
}

type webhookEntry struct {
	key        string
	credential WebhookCredential
	touchedAt  time.Time
}

// NewWebhookCache creates a cache with the given capacity and TTL. The clock
// is injectable for tests; pass nil for wall time.
func NewWebhookCache(capacity int, ttl time.Duration, now func() time.Time) *WebhookCache {
	if capacity <= 0 {
		capacity = DefaultWebhookCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultWebhookTTL
	}
	if now == nil {
		now = time.Now
	}
	return &WebhookCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		now:      now,
	}
}

// Key builds the cache key for a tenant's language channel.
func Key(tenantID uint, language string) string {
	return fmt.Sprintf("%d:%s", tenantID, language)
}

// Get returns the cached credential and refreshes its recency and TTL.
// An expired entry is dropped and reported as a miss.
func (c *WebhookCache) Get(key string) (WebhookCredential, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return WebhookCredential{}, false
	}

	entry := elem.Value.(*webhookEntry)
	now := c.now()
	if now.Sub(entry.touchedAt) >= c.ttl {
		c.removeLocked(elem)
		return WebhookCredential{}, false
	}

	entry.touchedAt = now
	c.order.MoveToFront(elem)
	return entry.credential, true
}

// Put stores a credential, evicting the least recently used entry when the
// cache is full.
func (c *WebhookCache) Put(key string, credential WebhookCredential) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*webhookEntry)
		entry.credential = credential
		entry.touchedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	elem := c.order.PushFront(&webhookEntry{
		key:        key,
		credential: credential,
		touchedAt:  c.now(),
	})
	c.entries[key] = elem
}

// Invalidate drops a credential immediately. Used when the platform reports
// the credential revoked, so no later delivery retries a dead webhook.
func (c *WebhookCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
}

// Sweep removes every entry whose TTL has lapsed and returns the count.
func (c *WebhookCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		entry := elem.Value.(*webhookEntry)
		if now.Sub(entry.touchedAt) >= c.ttl {
			c.removeLocked(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Len returns the number of cached credentials.
func (c *WebhookCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *WebhookCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*webhookEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}
