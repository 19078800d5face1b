// Package llm provides a client for OpenAI-compatible chat-completions APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Config represents chat client configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request overrides the client defaults for a single completion.
// Zero values keep the defaults.
type Request struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	Messages    []Message
}

// chatRequest is the chat-completions request body.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// chatResponse is the subset of the chat-completions response in use.
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// UpstreamError is returned when the API answers with a non-success status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}

// ConnectivityError is returned when the API cannot be reached in time.
type ConnectivityError struct {
	cause error
}

func (e *ConnectivityError) Error() string {
	return "Network error: " + e.cause.Error()
}

func (e *ConnectivityError) Unwrap() error { return e.cause }

// Client is a chat-completions API client.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// New creates a new chat client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("LLM API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}

	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends a chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, r Request) (string, error) {
	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    r.Messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if r.Model != "" {
		body.Model = r.Model
	}
	if r.MaxTokens > 0 {
		body.MaxTokens = r.MaxTokens
	}
	if r.Temperature != nil {
		body.Temperature = *r.Temperature
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	zlog.Debug().Msgf("chat completion: model=%s max_tokens=%d", body.Model, body.MaxTokens)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ConnectivityError{cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ConnectivityError{cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}
	if len(result.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}

	return result.Choices[0].Message.Content, nil
}
