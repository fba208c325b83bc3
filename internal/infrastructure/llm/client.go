// Package llm wraps an OpenAI-compatible chat-completions client for the
// three LLM-backed pipeline stages (search-intent generation, semantic
// verification, nutritional similarity). It is the sole place that knows
// about go-openai; C4/C7/C8 depend only on domain.LLMClient.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
	"github.com/sashabaranov/go-openai"
)

// Client adapts go-openai to domain.LLMClient. A nil *Client (or one
// constructed with an empty API key) reports Available() == false so callers
// degrade to their deterministic fallbacks without a network round-trip.
type Client struct {
	inner  *openai.Client
	model  string
	logger *slog.Logger
}

// NewClient constructs a Client. If apiKey is empty, the returned Client is
// non-nil but reports Available() == false.
func NewClient(apiKey, baseURL, model string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		return &Client{logger: logger}
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Client{
		inner:  openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Available reports whether this client has credentials and can be called.
func (c *Client) Available() bool {
	return c != nil && c.inner != nil
}

// Chat sends messages to the chat-completions endpoint. When wantJSON is
// true it first requests JSON-object response formatting; if the provider
// rejects that parameter (a 400-class error mentioning response_format), it
// retries once without the constraint, matching the reference
// implementation's degrade mechanism.
func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage, temperature float32, wantJSON bool) (string, error) {
	if !c.Available() {
		return "", errors.New("llm: client not configured")
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: temperature,
	}
	if wantJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.inner.CreateChatCompletion(ctx, req)
	if err != nil {
		if wantJSON && mentionsResponseFormat(err) {
			c.logger.Info("llm: retrying without response_format constraint", "error", err)
			req.ResponseFormat = nil
			resp, err = c.inner.CreateChatCompletion(ctx, req)
		}
		if err != nil {
			return "", err
		}
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("llm: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func mentionsResponseFormat(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "response_format") && strings.Contains(msg, "400")
}

func toOpenAIMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
