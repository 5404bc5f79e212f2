// Package llm invokes the external text-generation backend.
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
	"time"
)

// ErrEmptyReply is returned when the backend responds successfully but
// yields no usable text.
var ErrEmptyReply = errors.New("no response from model")

// InferenceError reports a failed call to the generation backend: transport
// failure, non-2xx status, or an undecodable response body.
type InferenceError struct {
	Detail string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ollama error: %s: %v", e.Detail, e.Err)
	}
	return "ollama error: " + e.Detail
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Generator produces text for a prompt. The timeout bounds the whole call;
// it varies per tool, so it is an argument rather than client state.
type Generator interface {
	Generate(ctx context.Context, model, prompt string, timeout time.Duration) (string, error)
}

// Client calls an Ollama-compatible /api/generate endpoint. Calls are always
// non-streaming and never retried.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Message  struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Generate sends a single generation request and returns the extracted reply
// text. The reply is taken from the top-level response field, falling back to
// message.content; if neither yields text, ErrEmptyReply is returned.
func (c *Client) Generate(ctx context.Context, model, prompt string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", &InferenceError{Detail: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &InferenceError{Detail: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &InferenceError{Detail: "request failed", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &InferenceError{Detail: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &InferenceError{Detail: fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))}
	}

	var decoded generateResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", &InferenceError{Detail: "decode response", Err: err}
	}

	text := decoded.Response
	if text == "" {
		text = decoded.Message.Content
	}
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
