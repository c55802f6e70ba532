package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dsa-mentor-service/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL points at Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "llama-3.1-8b-instant"

// Config selects the chat completion backend.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Client talks to any OpenAI-compatible chat completion API.
type Client struct {
	api   *openai.Client
	model string
	cfg   Config
}

// NewClient creates a chat client. An API key is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: model,
		cfg:   cfg,
	}, nil
}

// completion is one system+user exchange.
type completion struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

func (c *Client) complete(ctx context.Context, req completion) (string, error) {
	temperature := req.Temperature
	if c.cfg.Temperature > 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if c.cfg.MaxTokens > 0 && c.cfg.MaxTokens < maxTokens {
		maxTokens = c.cfg.MaxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", mapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrContentUnavailable)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrContentUnavailable)
	}
	return text, nil
}

// RateLimitError is returned when the backend answers 429.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return fmt.Sprintf("rate limited: %v", e.Err) }

func (e *RateLimitError) Unwrap() error { return e.Err }

func (e *RateLimitError) Is(target error) bool { return target == domain.ErrContentUnavailable }

func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
}
