// Package client is the HTTP/JSON consumer of the remote assistant service.
// Failures on any endpoint surface as plain errors; callers degrade to the
// fallback tables rather than becoming unusable.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/citizenvoice/assistant/internal/model/chat"
)

// ErrServer covers any non-2xx status from the assistant service.
var ErrServer = errors.New("assistant service error")

// QueryResult is the answer to a submitted query.
type QueryResult struct {
	Response string `json:"response"`
	Language string `json:"language"`
}

// Client talks to the assistant gateway.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for the gateway at baseURL. token may be empty for
// anonymous use; authenticated endpoints will then fail.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Query submits a user utterance. language empty means "auto-detect": the
// wire field is sent as null, mirroring the service contract.
func (c *Client) Query(ctx context.Context, query, language string) (QueryResult, error) {
	payload := map[string]any{"query": query}
	if language == "" {
		payload["language"] = nil
	} else {
		payload["language"] = language
	}

	var result QueryResult
	if err := c.post(ctx, "/api/chatbot/query", payload, &result); err != nil {
		return QueryResult{}, err
	}
	return result, nil
}

// SuggestedQuestions fetches follow-up questions for the given language.
func (c *Client) SuggestedQuestions(ctx context.Context, language string) ([]string, error) {
	if language == "" {
		language = chat.DefaultLanguage
	}
	var payload struct {
		SuggestedQuestions []string `json:"suggestedQuestions"`
	}
	path := "/api/chatbot/suggested-questions?language=" + url.QueryEscape(language)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.SuggestedQuestions, nil
}

// History loads the authenticated caller's stored transcript.
func (c *Client) History(ctx context.Context) ([]chat.Message, error) {
	var payload struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := c.get(ctx, "/api/chatbot/history", &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

// ClearHistory deletes the authenticated caller's stored transcript.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/chatbot/history", nil, nil)
}

// Synthesize requests text-to-speech and returns the decoded audio bytes.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	payload := map[string]string{"text": text, "language": language}
	var result struct {
		Audio string `json:"audio"`
	}
	if err := c.post(ctx, "/api/chatbot/text-to-speech", payload, &result); err != nil {
		return nil, err
	}
	if result.Audio == "" {
		return nil, fmt.Errorf("%w: empty audio payload", ErrServer)
	}
	audio, err := base64.StdEncoding.DecodeString(result.Audio)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio, nil
}

// Languages lists the supported-language table.
func (c *Client) Languages(ctx context.Context) (map[string]string, error) {
	var payload struct {
		Languages map[string]string `json:"languages"`
	}
	if err := c.get(ctx, "/api/chatbot/languages", &payload); err != nil {
		return nil, err
	}
	if len(payload.Languages) == 0 {
		return nil, fmt.Errorf("%w: empty language table", ErrServer)
	}
	return payload.Languages, nil
}

// CurrentLanguage asks the service which language it last negotiated for the
// authenticated caller.
func (c *Client) CurrentLanguage(ctx context.Context) (string, error) {
	var payload struct {
		Language string `json:"language"`
	}
	if err := c.get(ctx, "/api/chatbot/current-language", &payload); err != nil {
		return "", err
	}
	return payload.Language, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", ErrServer, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
