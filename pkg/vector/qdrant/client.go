package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Qdrant REST API. Collections hold knowledge-base
// points with their source text in the payload.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Point is a vector plus its payload, ready for upsert.
type Point struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// SearchResult is one scored hit.
type SearchResult struct {
	ID      string                 `json:"id"`
	Score   float32                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

// --- Request/Response structs (Internal to this package) ---

type createCollectionRequest struct {
	Vectors vectorsConfig `json:"vectors"`
}

type vectorsConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type upsertRequest struct {
	Points []Point `json:"points"`
}

type searchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	ScoreThreshold float32   `json:"score_threshold,omitempty"`
	WithPayload    bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		ID      json.Number            `json:"id"`
		Score   float32                `json:"score"`
		Payload map[string]interface{} `json:"payload"`
	} `json:"result"`
	Status string `json:"status"`
}

type collectionExistsResponse struct {
	Result struct {
		Exists bool `json:"exists"`
	} `json:"result"`
}

// --- API ---

// EnsureCollection creates the collection with COSINE distance when missing.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	exists, err := c.collectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	payload := createCollectionRequest{
		Vectors: vectorsConfig{
			Size:     vectorSize,
			Distance: "Cosine",
		},
	}
	_, err = c.do(ctx, "PUT", fmt.Sprintf("/collections/%s", name), payload)
	return err
}

func (c *Client) collectionExists(ctx context.Context, name string) (bool, error) {
	body, err := c.do(ctx, "GET", fmt.Sprintf("/collections/%s/exists", name), nil)
	if err != nil {
		return false, err
	}
	var resp collectionExistsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, err
	}
	return resp.Result.Exists, nil
}

// Upsert writes points, waiting for the operation to be applied.
func (c *Client) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	payload := upsertRequest{Points: points}
	_, err := c.do(ctx, "PUT", fmt.Sprintf("/collections/%s/points?wait=true", collection), payload)
	return err
}

// Search runs a similarity query over one collection.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int, scoreThreshold float32) ([]SearchResult, error) {
	payload := searchRequest{
		Vector:         vector,
		Limit:          limit,
		ScoreThreshold: scoreThreshold,
		WithPayload:    true,
	}

	body, err := c.do(ctx, "POST", fmt.Sprintf("/collections/%s/points/search", collection), payload)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Result))
	for _, hit := range resp.Result {
		results = append(results, SearchResult{
			ID:      hit.ID.String(),
			Score:   hit.Score,
			Payload: hit.Payload,
		})
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("api-key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
