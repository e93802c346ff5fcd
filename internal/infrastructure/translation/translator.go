// Package translation adapts the OpenAI chat completion API into the
// translation gateway used by the relay pipeline.
package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	sharedConfig "github.com/lingorelay/lingorelay/internal/shared/config"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

const defaultTimeout = 30 * time.Second

// GPTTranslator translates message text through chat completions.
type GPTTranslator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  logger.Interface
}

// NewGPTTranslator creates a translator from config.
func NewGPTTranslator(cfg sharedConfig.TranslationConfig, log logger.Interface) *GPTTranslator {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &GPTTranslator{
		client:  openai.NewClient(cfg.APIKey),
		model:   model,
		timeout: timeout,
		logger:  log,
	}
}

// Translate renders text from the source language into one target language.
func (t *GPTTranslator) Translate(ctx context.Context, text string, source, target tenant.Language) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	system := fmt.Sprintf(
		"You are a translation engine. Translate the user's message from %s to %s. "+
			"Preserve tone, slang, emoji and formatting. Output only the translation, nothing else.",
		source.DisplayName(), target.DisplayName(),
	)

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed for %s: %w", target, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translation returned no choices for %s", target)
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("translation returned empty text for %s", target)
	}
	return out, nil
}

// TranslateAll renders text into every target language, one request per
// target. All-or-nothing: a single failed target fails the whole call, so
// the pipeline never delivers a partial fan-out.
func (t *GPTTranslator) TranslateAll(ctx context.Context, text string, source tenant.Language, targets []tenant.Language) (map[tenant.Language]string, error) {
	results := make(map[tenant.Language]string, len(targets))
	for _, target := range targets {
		translated, err := t.Translate(ctx, text, source, target)
		if err != nil {
			t.logger.Warnw("translation failed, aborting relay",
				"source", source.String(), "target", target.String(), "error", err)
			return nil, err
		}
		results[target] = translated
	}
	return results, nil
}
