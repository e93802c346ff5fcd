package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// noticeKeyPrefix is the prefix for all notice deduplication keys
	noticeKeyPrefix = "relay_notice:"
	// DefaultVerificationNoticeCooldown suppresses repeated verification
	// reminders to the same user in the same tenant.
	DefaultVerificationNoticeCooldown = 24 * time.Hour
)

// NoticeType represents the user-facing notices subject to deduplication.
type NoticeType string

const (
	NoticeTypeVerification  NoticeType = "verification"
	NoticeTypeBudgetWarning NoticeType = "budget_warning"
)

// NoticeDeduplicator provides Redis-based cooldowns for one-time notices, so
// a chatty unverified user or a tenant hovering at its budget threshold does
// not get nagged on every message.
type NoticeDeduplicator struct {
	client *redis.Client
}

// NewNoticeDeduplicator creates a new NoticeDeduplicator instance
func NewNoticeDeduplicator(client *redis.Client) *NoticeDeduplicator {
	return &NoticeDeduplicator{client: client}
}

// buildKey builds the Redis key for notice deduplication
// Format: relay_notice:{type}:{tenant_id}:{subject}
func (d *NoticeDeduplicator) buildKey(noticeType NoticeType, tenantID uint, subject string) string {
	return fmt.Sprintf("%s%s:%d:%s", noticeKeyPrefix, noticeType, tenantID, subject)
}

// TryAcquire atomically checks and acquires the notice cooldown using SetNX.
// Returns true when the notice should be sent, false when in cooldown. SetNX
// keeps the check race-free across instances.
func (d *NoticeDeduplicator) TryAcquire(ctx context.Context, noticeType NoticeType, tenantID uint, subject string, ttl time.Duration) (bool, error) {
	key := d.buildKey(noticeType, tenantID, subject)

	acquired, err := d.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire notice cooldown: %w", err)
	}

	return acquired, nil
}

// Reset clears the cooldown, re-arming the notice. Used when a tenant's
// usage rolls over so the next threshold crossing warns again.
func (d *NoticeDeduplicator) Reset(ctx context.Context, noticeType NoticeType, tenantID uint, subject string) error {
	key := d.buildKey(noticeType, tenantID, subject)

	if err := d.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset notice cooldown: %w", err)
	}

	return nil
}

// BudgetWarningTTL returns a cooldown that lasts until the start of the next
// month, so the threshold warning fires at most once per billing period.
func BudgetWarningTTL(now, nextMonthStart time.Time) time.Duration {
	ttl := nextMonthStart.Sub(now)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
