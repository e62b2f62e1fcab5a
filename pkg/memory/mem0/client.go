package mem0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps the Mem0 v2 API. A nil *Client is valid and degrades every
// call to a no-op, so the chat path works without an API key.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = "https://api.mem0.ai"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Memory is one stored fact with its relevance score when searched.
type Memory struct {
	ID     string  `json:"id"`
	Memory string  `json:"memory"`
	Score  float64 `json:"score,omitempty"`
}

// Message mirrors the chat message shape Mem0 ingests.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- Request/Response structs (Internal to this package) ---

type addRequest struct {
	Messages []Message              `json:"messages"`
	UserID   string                 `json:"user_id"`
	RunID    string                 `json:"run_id,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type searchRequest struct {
	Query   string                 `json:"query"`
	Filters map[string]interface{} `json:"filters"`
	TopK    int                    `json:"top_k,omitempty"`
}

type getAllRequest struct {
	Filters map[string]interface{} `json:"filters"`
}

// --- API ---

// Add stores an exchange. RunID scopes the memory to one session;
// leave it empty for user-wide memory.
func (c *Client) Add(ctx context.Context, userID, runID string, messages []Message, metadata map[string]interface{}) error {
	if c == nil {
		return nil
	}
	payload := addRequest{
		Messages: messages,
		UserID:   userID,
		RunID:    runID,
		Metadata: metadata,
	}
	_, err := c.do(ctx, "POST", "/v1/memories/", payload)
	return err
}

// Search queries memories. With runID set, results are session-scoped.
func (c *Client) Search(ctx context.Context, query, userID, runID string, topK int) ([]Memory, error) {
	if c == nil {
		return nil, nil
	}

	conditions := []map[string]interface{}{
		{"user_id": userID},
	}
	if runID != "" {
		conditions = append(conditions, map[string]interface{}{"run_id": runID})
	}

	payload := searchRequest{
		Query:   query,
		Filters: map[string]interface{}{"AND": conditions},
		TopK:    topK,
	}

	body, err := c.do(ctx, "POST", "/v2/memories/search/", payload)
	if err != nil {
		return nil, err
	}

	var memories []Memory
	if err := json.Unmarshal(body, &memories); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}
	return memories, nil
}

// GetAll lists every memory for the user, optionally scoped to a session.
func (c *Client) GetAll(ctx context.Context, userID, runID string) ([]Memory, error) {
	if c == nil {
		return nil, nil
	}

	conditions := []map[string]interface{}{
		{"user_id": userID},
	}
	if runID != "" {
		conditions = append(conditions, map[string]interface{}{"run_id": runID})
	}

	payload := getAllRequest{
		Filters: map[string]interface{}{"AND": conditions},
	}

	body, err := c.do(ctx, "POST", "/v2/memories/", payload)
	if err != nil {
		return nil, err
	}

	var memories []Memory
	if err := json.Unmarshal(body, &memories); err != nil {
		return nil, fmt.Errorf("unmarshal memories response: %w", err)
	}
	return memories, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewBuffer(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mem0 request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mem0 error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
