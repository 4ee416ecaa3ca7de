// Package generate wraps the text-generation call. Groq exposes an
// OpenAI-compatible API, so the client is openai-go pointed at Groq's
// endpoint. Every failure converts to a structured error at this boundary;
// callers decide whether to fall back, never how to interpret a raw client
// error.
package generate

import (
	"context"
	stderrors "errors"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"unposted/internal/config"
	"unposted/internal/errors"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

const (
	temperature = 0.7
	maxTokens   = 600
)

// Client calls the chat-completions API with a fixed model and timeout.
type Client struct {
	api   openai.Client
	model string
}

// NewClient creates a generation client. Returns nil when the credential is
// absent; a nil client reports CONFIG_MISSING from Generate, which sends the
// processor down the fallback path.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return newClient(apiKey, model, DefaultBaseURL, timeout)
}

func newClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithRequestTimeout(timeout),
			option.WithMaxRetries(0),
		),
		model: model,
	}
}

// Generate sends a single user prompt and returns the trimmed completion text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", errors.NewConfigMissing(config.EnvGroqKey)
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		switch {
		case isRateLimitError(err):
			log.Printf("groq: rate limited: %v", err)
		case isServerError(err):
			log.Printf("groq: server error: %v", err)
		default:
			log.Printf("groq: request failed: %v", err)
		}
		return "", errors.NewRemoteCall("groq", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.NewRemoteCall("groq", errNoChoices)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var errNoChoices = stderrors.New("no choices in response")

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "500") ||
		strings.Contains(s, "internal server error") ||
		strings.Contains(s, "server_error")
}
