// Package ai implements the ports.Assistant interface over the Gemini API.
package ai

import (
	"context"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const moduleName = "assistant"

// ApologyNoAPIKey is the fixed reply when no Gemini API key is configured.
// Startup continues without a key; only the answers degrade.
const ApologyNoAPIKey = "Gemini APIキーが設定されていないため、応答できません．"

// GeminiAssistant is an Assistant implementation backed by the Gemini API.
// A nil call means the API key was missing at startup.
type GeminiAssistant struct {
	model *genai.GenerativeModel
	retry config.RetryConfig
	call  func(ctx context.Context, prompt string) (string, error)
}

// NewGeminiAssistant creates a GeminiAssistant from configuration.
// A missing API key is logged but does not fail startup; the returned
// assistant then answers every prompt with ApologyNoAPIKey.
// The returned close function is nil when no client was created.
func NewGeminiAssistant(ctx context.Context, cfg *config.Config) (*GeminiAssistant, func() error, error) {
	a := &GeminiAssistant{retry: cfg.Bot.Gemini.Retry}

	if cfg.Bot.Gemini.APIKey == "" {
		logger.Errorf("GEMINI_API_KEY is not set. The assistant will reply with a fixed apology.")
		return a, nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Bot.Gemini.APIKey))
	if err != nil {
		return nil, nil, exception.NewBotError(moduleName, "failed to create Gemini client", err, false)
	}

	m := client.GenerativeModel(cfg.Bot.Gemini.Model)
	// All harm categories are set to BLOCK_NONE to avoid unnecessary refusals
	// on benign lab-internal questions.
	m.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}
	a.model = m
	a.call = a.generateOnce

	logger.Infof("Gemini assistant initialized with model '%s'.", cfg.Bot.Gemini.Model)
	return a, client.Close, nil
}

// Generate returns the model's reply to the prompt. Temporary failures are
// retried with exponential backoff per the configured RetryConfig.
func (a *GeminiAssistant) Generate(ctx context.Context, prompt string) (string, error) {
	if a.call == nil {
		return ApologyNoAPIKey, nil
	}

	maxAttempts := a.retry.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	interval := time.Duration(a.retry.InitialInterval) * time.Millisecond
	maxInterval := time.Duration(a.retry.MaxInterval) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := a.call(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt == maxAttempts || !exception.IsTemporary(err) {
			break
		}

		logger.Warnf("Gemini request failed (attempt %d/%d), retrying in %v: %v", attempt, maxAttempts, interval, err)
		select {
		case <-ctx.Done():
			return "", exception.NewBotError(moduleName, "context cancelled while waiting to retry", ctx.Err(), false)
		case <-time.After(interval):
		}

		interval = nextInterval(interval, a.retry.Factor, maxInterval)
	}

	return "", exception.NewBotError(moduleName, "Gemini request failed", lastErr, exception.IsTemporary(lastErr))
}

// nextInterval grows the backoff interval by factor, capped at max when max
// is positive.
func nextInterval(current time.Duration, factor float64, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * factor)
	if max > 0 && next > max {
		next = max
	}
	return next
}

// generateOnce performs a single GenerateContent call and extracts the text parts.
func (a *GeminiAssistant) generateOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", exception.NewBotError(moduleName, "Gemini returned no candidates", nil, true)
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", exception.NewBotError(moduleName, "Gemini returned an empty reply", nil, true)
	}
	return text, nil
}

var _ ports.Assistant = (*GeminiAssistant)(nil)
