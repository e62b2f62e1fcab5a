package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSendsThresholdAndParsesHits(t *testing.T) {
	var gotPath string
	var gotBody searchRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": [
				{"id": "abc", "score": 0.91, "payload": {"title": "Cloud Consulting"}},
				{"id": 17, "score": 0.52, "payload": {"title": "FAQ entry"}}
			],
			"status": "ok"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	results, err := client.Search(context.Background(), "dextrends_offerings", []float32{0.1, 0.2}, 5, 0.4)
	require.NoError(t, err)

	assert.Equal(t, "/collections/dextrends_offerings/points/search", gotPath)
	assert.Equal(t, 5, gotBody.Limit)
	assert.InDelta(t, 0.4, gotBody.ScoreThreshold, 1e-6)
	assert.True(t, gotBody.WithPayload)

	require.Len(t, results, 2)
	assert.Equal(t, "abc", results[0].ID)
	assert.InDelta(t, 0.91, results[0].Score, 1e-6)
	assert.Equal(t, "Cloud Consulting", results[0].Payload["title"])
	assert.Equal(t, "17", results[1].ID, "numeric point ids come back as strings")
}

func TestEnsureCollectionSkipsExisting(t *testing.T) {
	var createCalled bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"result": {"exists": true}}`))
		case r.Method == http.MethodPut:
			createCalled = true
			_, _ = w.Write([]byte(`{"result": true}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	require.NoError(t, client.EnsureCollection(context.Background(), "dextrends_faq", 1536))
	assert.False(t, createCalled, "existing collection must not be recreated")
}

func TestEnsureCollectionCreatesMissing(t *testing.T) {
	var gotCreate createCollectionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"result": {"exists": false}}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotCreate))
			_, _ = w.Write([]byte(`{"result": true}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	require.NoError(t, client.EnsureCollection(context.Background(), "dextrends_faq", 1536))

	assert.Equal(t, 1536, gotCreate.Vectors.Size)
	assert.Equal(t, "Cosine", gotCreate.Vectors.Distance)
}

func TestSearchSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Search(context.Background(), "missing", []float32{0.1}, 3, 0)
	assert.Error(t, err)
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		_, _ = w.Write([]byte(`{"result": {"exists": true}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key")
	require.NoError(t, client.EnsureCollection(context.Background(), "any", 8))
	assert.Equal(t, "secret-key", gotKey)
}
