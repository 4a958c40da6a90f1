// Package infer issues synchronous text-generation requests to an LLM
// inference endpoint. Each call is a single blocking HTTP request with no
// retry or backoff.
package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single inference request when no timeout is
// configured. Local models can be slow on first load.
const DefaultTimeout = 120 * time.Second

// Generator produces text for a prompt. Implemented by Client and Cache.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// APIError is a non-success HTTP status returned by the inference endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference API error (status %d): %s", e.StatusCode, e.Body)
}

// Client performs text generation against an Ollama-style or
// OpenAI-compatible API.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	apiType     string // "generate" or "chat_completions"
	temperature float64
	client      *http.Client
}

// NewClient creates a client. For api type "generate" the base URL is the
// full endpoint (e.g. http://localhost:11434/api/generate); for
// "chat_completions" the path is appended. A non-positive timeout uses
// DefaultTimeout.
func NewClient(baseURL, apiKey, model, apiType string, temperature float64, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		apiType:     apiType,
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

// Generate sends one request and blocks until the full response arrives.
// Connection failures, non-success statuses (*APIError), and malformed
// payloads surface as distinct errors.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiType == "chat_completions" {
		return c.generateChatCompletions(ctx, prompt)
	}
	return c.generate(ctx, prompt)
}

// --- Ollama generate API ---

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := c.post(ctx, c.baseURL, generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Stream:      false,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse inference response: %w (body: %s)", err, string(body))
	}
	if result.Error != "" {
		return "", fmt.Errorf("inference API error: %s", result.Error)
	}
	return result.Response, nil
}

// --- Chat Completions API ---

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []chatChoice  `json:"choices"`
	Error   *chatAPIError `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatAPIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (c *Client) generateChatCompletions(ctx context.Context, prompt string) (string, error) {
	body, err := c.post(ctx, c.baseURL+"/chat/completions", chatCompletionsRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Stream:      false,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	var result chatCompletionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse inference response: %w (body: %s)", err, string(body))
	}
	if result.Error != nil {
		return "", fmt.Errorf("inference API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in inference response")
	}
	return result.Choices[0].Message.Content, nil
}

// post sends a JSON request and returns the response body, converting
// transport failures and non-success statuses into errors.
func (c *Client) post(ctx context.Context, url string, reqBody any) ([]byte, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
