package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/infrastructure/cache"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

// webhookName is the display name credentials are provisioned under.
const webhookName = "LingoRelay"

// DisplayIdentity is the author identity a relayed message is delivered as.
type DisplayIdentity struct {
	Name      string
	AvatarURL string
}

// WebhookDeliverer sends translated messages through channel webhooks, going
// through the bounded credential cache. On a revoked credential it evicts the
// cached entry, provisions a fresh webhook and retries once; the returned
// mapping carries the new credential for the caller to persist.
type WebhookDeliverer struct {
	client *Client
	cache  *cache.WebhookCache
	logger logger.Interface
}

// NewWebhookDeliverer creates a deliverer over the given client and cache.
func NewWebhookDeliverer(client *Client, webhookCache *cache.WebhookCache, log logger.Interface) *WebhookDeliverer {
	return &WebhookDeliverer{
		client: client,
		cache:  webhookCache,
		logger: log,
	}
}

// Deliver sends content into the mapping's channel under the display
// identity. The second return value is a replacement mapping when a
// credential was provisioned or rotated, nil when the stored one still holds.
func (d *WebhookDeliverer) Deliver(ctx context.Context, tenantID uint, mapping tenant.ChannelMapping, identity DisplayIdentity, content string) (*tenant.ChannelMapping, error) {
	key := cache.Key(tenantID, mapping.Language.String())

	cred, ok := d.cache.Get(key)
	if !ok {
		if mapping.WebhookID != "" && mapping.WebhookToken != "" {
			cred = cache.WebhookCredential{
				WebhookID: mapping.WebhookID,
				Token:     mapping.WebhookToken,
				ChannelID: mapping.ChannelID,
			}
		} else {
			fresh, err := d.provision(ctx, mapping)
			if err != nil {
				return nil, err
			}
			cred = *fresh
			mapping.WebhookID = cred.WebhookID
			mapping.WebhookToken = cred.Token
		}
		d.cache.Put(key, cred)
	}

	err := d.client.ExecuteWebhook(ctx, cred.WebhookID, cred.Token, identity.Name, identity.AvatarURL, content)
	if err == nil {
		if mapping.WebhookID == cred.WebhookID && mapping.WebhookToken == cred.Token {
			return nil, nil
		}
		return &mapping, nil
	}
	if !errors.Is(err, ErrCredentialRevoked) {
		return nil, err
	}

	// Stale credential: evict, reprovision, retry once.
	d.cache.Invalidate(key)
	d.logger.Infow("webhook credential revoked, reprovisioning",
		"tenant_id", tenantID, "language", mapping.Language.String())

	fresh, err := d.provision(ctx, mapping)
	if err != nil {
		return nil, err
	}
	d.cache.Put(key, *fresh)

	if err := d.client.ExecuteWebhook(ctx, fresh.WebhookID, fresh.Token, identity.Name, identity.AvatarURL, content); err != nil {
		return nil, err
	}

	mapping.WebhookID = fresh.WebhookID
	mapping.WebhookToken = fresh.Token
	return &mapping, nil
}

func (d *WebhookDeliverer) provision(ctx context.Context, mapping tenant.ChannelMapping) (*cache.WebhookCredential, error) {
	info, err := d.client.CreateWebhook(ctx, mapping.ChannelID, webhookName)
	if err != nil {
		return nil, fmt.Errorf("failed to provision webhook for channel %s: %w", mapping.ChannelID, err)
	}
	return &cache.WebhookCredential{
		WebhookID: info.ID,
		Token:     info.Token,
		ChannelID: mapping.ChannelID,
	}, nil
}
