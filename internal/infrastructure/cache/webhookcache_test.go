package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestCache(capacity int, ttl time.Duration) (*WebhookCache, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewWebhookCache(capacity, ttl, clock.Now), clock
}

func TestWebhookCache_GetPut(t *testing.T) {
	c, _ := newTestCache(10, 30*time.Minute)

	_, ok := c.Get(Key(1, "ja"))
	assert.False(t, ok)

	cred := WebhookCredential{WebhookID: "wh-1", Token: "tok-1", ChannelID: "chan-ja"}
	c.Put(Key(1, "ja"), cred)

	got, ok := c.Get(Key(1, "ja"))
	assert.True(t, ok)
	assert.Equal(t, cred, got)
}

func TestWebhookCache_TTLExpiry(t *testing.T) {
	c, clock := newTestCache(10, 30*time.Minute)

	c.Put(Key(1, "ja"), WebhookCredential{WebhookID: "wh-1"})

	clock.Advance(29 * time.Minute)
	_, ok := c.Get(Key(1, "ja"))
	assert.True(t, ok, "entry inside TTL must hit")

	clock.Advance(30 * time.Minute)
	_, ok = c.Get(Key(1, "ja"))
	assert.False(t, ok, "entry past TTL must miss")
	assert.Zero(t, c.Len(), "expired entry must be dropped on access")
}

func TestWebhookCache_GetRefreshesTTL(t *testing.T) {
	c, clock := newTestCache(10, 30*time.Minute)

	c.Put(Key(1, "ja"), WebhookCredential{WebhookID: "wh-1"})

	// Touch every 20 minutes; the entry must survive well past one TTL.
	for range 4 {
		clock.Advance(20 * time.Minute)
		_, ok := c.Get(Key(1, "ja"))
		assert.True(t, ok)
	}
}

func TestWebhookCache_LRUEviction(t *testing.T) {
	c, _ := newTestCache(3, 30*time.Minute)

	for i := 1; i <= 3; i++ {
		c.Put(Key(uint(i), "en"), WebhookCredential{WebhookID: fmt.Sprintf("wh-%d", i)})
	}

	// Touch the oldest so it becomes most recent.
	_, ok := c.Get(Key(1, "en"))
	assert.True(t, ok)

	c.Put(Key(4, "en"), WebhookCredential{WebhookID: "wh-4"})

	_, ok = c.Get(Key(2, "en"))
	assert.False(t, ok, "least recently used entry must be evicted")
	_, ok = c.Get(Key(1, "en"))
	assert.True(t, ok)
	_, ok = c.Get(Key(4, "en"))
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestWebhookCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(10, 30*time.Minute)

	c.Put(Key(1, "ja"), WebhookCredential{WebhookID: "wh-1"})
	c.Invalidate(Key(1, "ja"))

	_, ok := c.Get(Key(1, "ja"))
	assert.False(t, ok)

	// Invalidating a missing key is a no-op.
	c.Invalidate(Key(9, "fr"))
}

func TestWebhookCache_Sweep(t *testing.T) {
	c, clock := newTestCache(10, 30*time.Minute)

	c.Put(Key(1, "ja"), WebhookCredential{WebhookID: "wh-1"})
	c.Put(Key(1, "fr"), WebhookCredential{WebhookID: "wh-2"})

	clock.Advance(10 * time.Minute)
	c.Put(Key(1, "de"), WebhookCredential{WebhookID: "wh-3"})

	clock.Advance(25 * time.Minute)
	removed := c.Sweep()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get(Key(1, "de"))
	assert.True(t, ok)
}
