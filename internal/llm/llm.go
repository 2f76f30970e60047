package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Transport sends one prompt to the model and returns the raw reply
// text. Implementations normalize failures into the package's error
// kinds: ErrUnauthenticated for credential problems, ErrUpstream for
// transient failures worth retrying.
type Transport interface {
	Send(ctx context.Context, system, user string) (string, error)
}

const maxReplyTokens = 1024

// Client is the OpenAI-compatible chat transport. Any endpoint speaking
// the chat-completions protocol works via LLM_BASE_URL.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Client) Send(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: maxReplyTokens,
		// No ResponseFormat — not all models support json_object mode.
		// The system prompt instructs the model to return pure JSON.
		Temperature: 0.2,
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps transport failures onto the package error kinds so
// the invoker can decide retry behavior without knowing openai types.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		case apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500:
			return fmt.Errorf("%w: %v", ErrUpstream, err)
		default:
			return err // 4xx other than auth/rate: not retryable
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// keep DeadlineExceeded in the chain so callers can report 504
		return fmt.Errorf("%w: request timed out: %w", ErrUpstream, context.DeadlineExceeded)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	// connection refused, DNS failure, reset: all transient
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
