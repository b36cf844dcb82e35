package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const systemPrompt = "You are a helpful travel expert."

var (
	// ErrUnexpectedSchema means the upstream answered 2xx with a body we cannot read text from.
	ErrUnexpectedSchema = errors.New("unexpected llm response schema")
	ErrDisabled         = errors.New("llm client disabled")
)

// UpstreamError is returned for non-2xx answers from the model endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm upstream returned %d: %s", e.StatusCode, e.Body)
}

func IsUpstreamError(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// Completer produces free text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls a Cloudflare Workers AI text-generation model.
type Client struct {
	endpoint    string
	token       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
}

type ClientConfig struct {
	Endpoint    string
	Token       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	return &Client{
		endpoint:    cfg.Endpoint,
		token:       cfg.Token,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Result *struct {
		Response *string `json:"response"`
		// legacy schema
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"result"`
}

// Complete sends one chat request and returns the trimmed model text. It
// never retries.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(completionRequest{
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build llm request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call llm: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: res.StatusCode, Body: truncate(string(raw), 512)}
	}

	return extractText(raw)
}

func extractText(raw []byte) (string, error) {
	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedSchema, err)
	}
	if out.Result == nil {
		return "", fmt.Errorf("%w: missing result", ErrUnexpectedSchema)
	}
	if out.Result.Response != nil {
		return strings.TrimSpace(*out.Result.Response), nil
	}
	if len(out.Result.Choices) > 0 {
		return strings.TrimSpace(out.Result.Choices[0].Message.Content), nil
	}
	return "", fmt.Errorf("%w: no response or choices", ErrUnexpectedSchema)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
