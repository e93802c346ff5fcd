package relay

import (
	"context"
	"time"

	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/infrastructure/cache"
	"github.com/lingorelay/lingorelay/internal/infrastructure/platform"
)

// MessageEvent is one inbound platform message.
type MessageEvent struct {
	SpaceID     string `json:"space_id"`
	ChannelID   string `json:"channel_id"`
	MessageID   string `json:"message_id"`
	UserID      string `json:"user_id"`
	Text        string `json:"text"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	// FromBot marks automated senders, including our own relayed deliveries.
	FromBot bool `json:"from_bot"`
}

// Platform is the subset of platform operations the pipeline needs.
type Platform interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// SendDirect returns platform.ErrDeliveryRefused when the user's
	// privacy settings block DMs.
	SendDirect(ctx context.Context, userID, content string) error
	SendTemporaryMessage(ctx context.Context, channelID, content string, ttl time.Duration) error
	React(ctx context.Context, channelID, messageID, emoji string) error
}

// Translator renders text into target languages, one provider call per
// target, all-or-nothing.
type Translator interface {
	TranslateAll(ctx context.Context, text string, source tenant.Language, targets []tenant.Language) (map[tenant.Language]string, error)
}

// Deliverer sends a translated message into a target channel. A non-nil
// returned mapping carries a freshly provisioned credential to persist.
type Deliverer interface {
	Deliver(ctx context.Context, tenantID uint, mapping tenant.ChannelMapping, identity platform.DisplayIdentity, content string) (*tenant.ChannelMapping, error)
}

// NoticeGate deduplicates one-time user notices.
type NoticeGate interface {
	TryAcquire(ctx context.Context, noticeType cache.NoticeType, tenantID uint, subject string, ttl time.Duration) (bool, error)
}
