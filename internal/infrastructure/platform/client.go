// Package platform implements the chat platform REST client used for message
// cleanup, webhook delivery and user notices.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	sharedConfig "github.com/lingorelay/lingorelay/internal/shared/config"
	"github.com/lingorelay/lingorelay/internal/shared/goroutine"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

var (
	// ErrCredentialRevoked reports that a webhook credential was deleted or
	// invalidated on the platform side. Callers must drop the cached
	// credential and reprovision.
	ErrCredentialRevoked = errors.New("webhook credential revoked")
	// ErrDeliveryRefused reports that the recipient does not accept direct
	// messages. Not retryable.
	ErrDeliveryRefused = errors.New("recipient refuses direct messages")
)

// WebhookInfo is a provisioned delivery credential for a channel.
type WebhookInfo struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Message is a posted platform message.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

// Client provides chat platform REST operations.
type Client struct {
	config     sharedConfig.PlatformConfig
	httpClient *http.Client
	baseURL    string
	logger     logger.Interface
}

// NewClient creates a platform REST client.
func NewClient(config sharedConfig.PlatformConfig, log logger.Interface) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: config.APIBaseURL,
		logger:  log,
	}
}

// DeleteMessage removes a message from a channel. A 404 is treated as
// success: the message is already gone.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	path := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)
	status, _, err := c.do(ctx, http.MethodDelete, path, nil, true)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return nil
	}
	if status >= 300 {
		return fmt.Errorf("platform API error deleting message: status %d", status)
	}
	return nil
}

// SendChannelMessage posts a message to a channel as the bot.
func (c *Client) SendChannelMessage(ctx context.Context, channelID, content string) (*Message, error) {
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	body := map[string]any{"content": content}

	status, respBody, err := c.do(ctx, http.MethodPost, path, body, true)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("platform API error sending message: status %d", status)
	}

	var msg Message
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message response: %w", err)
	}
	return &msg, nil
}

// SendTemporaryMessage posts a channel message and deletes it after ttl.
// Deletion runs in the background; a failed cleanup is logged and dropped.
func (c *Client) SendTemporaryMessage(ctx context.Context, channelID, content string, ttl time.Duration) error {
	msg, err := c.SendChannelMessage(ctx, channelID, content)
	if err != nil {
		return err
	}

	goroutine.SafeGo(c.logger, "temporary-message-cleanup", func() {
		timer := time.NewTimer(ttl)
		defer timer.Stop()
		<-timer.C

		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.DeleteMessage(cleanupCtx, msg.ChannelID, msg.ID); err != nil {
			c.logger.Warnw("failed to delete temporary message",
				"channel_id", msg.ChannelID, "message_id", msg.ID, "error", err)
		}
	})

	return nil
}

// SendDirect opens a DM channel to the user and posts the content. Returns
// ErrDeliveryRefused when the user's privacy settings block bot DMs.
func (c *Client) SendDirect(ctx context.Context, userID, content string) error {
	status, respBody, err := c.do(ctx, http.MethodPost, "/users/@me/channels", map[string]any{
		"recipient_id": userID,
	}, true)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("platform API error opening DM channel: status %d", status)
	}

	var dm struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &dm); err != nil {
		return fmt.Errorf("failed to decode DM channel response: %w", err)
	}

	path := fmt.Sprintf("/channels/%s/messages", dm.ID)
	status, _, err = c.do(ctx, http.MethodPost, path, map[string]any{"content": content}, true)
	if err != nil {
		return err
	}
	if status == http.StatusForbidden {
		return ErrDeliveryRefused
	}
	if status >= 300 {
		return fmt.Errorf("platform API error sending DM: status %d", status)
	}
	return nil
}

// CreateWebhook provisions a delivery credential on a channel.
func (c *Client) CreateWebhook(ctx context.Context, channelID, name string) (*WebhookInfo, error) {
	path := fmt.Sprintf("/channels/%s/webhooks", channelID)
	status, respBody, err := c.do(ctx, http.MethodPost, path, map[string]any{"name": name}, true)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, fmt.Errorf("platform API error creating webhook: status %d", status)
	}

	var info WebhookInfo
	if err := json.Unmarshal(respBody, &info); err != nil {
		return nil, fmt.Errorf("failed to decode webhook response: %w", err)
	}
	return &info, nil
}

// ExecuteWebhook delivers content through a webhook under a display identity.
// Returns ErrCredentialRevoked on 401/404 so the caller can evict the cached
// credential and reprovision.
func (c *Client) ExecuteWebhook(ctx context.Context, webhookID, token, displayName, avatarURL, content string) error {
	path := fmt.Sprintf("/webhooks/%s/%s", webhookID, url.PathEscape(token))
	body := map[string]any{
		"content":  content,
		"username": displayName,
	}
	if avatarURL != "" {
		body["avatar_url"] = avatarURL
	}

	status, _, err := c.do(ctx, http.MethodPost, path, body, false)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusNotFound {
		return ErrCredentialRevoked
	}
	if status >= 300 {
		return fmt.Errorf("platform API error executing webhook: status %d", status)
	}
	return nil
}

// React adds an emoji reaction to a message.
func (c *Client) React(ctx context.Context, channelID, messageID, emoji string) error {
	path := fmt.Sprintf("/channels/%s/messages/%s/reactions/%s/@me",
		channelID, messageID, url.PathEscape(emoji))
	status, _, err := c.do(ctx, http.MethodPut, path, nil, true)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("platform API error adding reaction: status %d", status)
	}
	return nil
}

// do issues one platform API request and returns the status and body.
// Transport failures return an error; HTTP error statuses are left to the
// caller, which knows which ones carry meaning.
func (c *Client) do(ctx context.Context, method, path string, body map[string]any, authenticated bool) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bot "+c.config.BotToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
