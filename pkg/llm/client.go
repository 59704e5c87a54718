// Package llm calls an OpenAI compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// contentPath locates the reply text in a chat completions response.
const contentPath = "choices.0.message.content"

// ErrMalformedResponse is returned when the reply is not JSON or lacks the
// expected content field.
var ErrMalformedResponse = errors.New("malformed model response")

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Endpoint identifies the model to call. It is built from the stored
// configuration on every request.
type Endpoint struct {
	BaseURL string
	APIKey  string
	Model   string
}

// URL returns the chat completions URL for the endpoint.
func (e Endpoint) URL() string {
	return strings.TrimRight(strings.TrimSpace(e.BaseURL), "/") + "/chat/completions"
}

// StatusError is returned for a non-2xx reply.
type StatusError struct {
	StatusCode int
	Status     string // e.g. "401 Unauthorized"
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API call failed: %s", e.Status)
}

// Client sends non-streaming chat completion requests.
type Client struct {
	client *http.Client
}

// NewClient creates a client. A nil httpClient uses a client without a
// timeout so that only the transport limits the call.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{client: httpClient}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Complete sends messages to the endpoint and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, ep Endpoint, messages []Message) (string, error) {
	jsonBody, err := json.Marshal(chatRequest{
		Model:    ep.Model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL(), bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ep.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(body),
		}
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: reply is not valid JSON", ErrMalformedResponse)
	}
	content := gjson.GetBytes(body, contentPath)
	if !content.Exists() || content.Type != gjson.String {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedResponse, contentPath)
	}
	return content.String(), nil
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
