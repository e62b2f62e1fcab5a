package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, capture *chatCompletionRequest, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(capture))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
}

func TestChatParsesCompletionAndUsage(t *testing.T) {
	var got chatCompletionRequest
	server := newTestServer(t, &got, `{
		"model": "gpt-4.1-nano",
		"choices": [{"message": {"role": "assistant", "content": "Hello there"}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`)
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "test-key", "gpt-4.1-nano")
	completion, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	}, llm.WithTemperature(0.3), llm.WithMaxTokens(150))
	require.NoError(t, err)

	assert.Equal(t, "Hello there", completion.Content)
	assert.Equal(t, 15, completion.TokensUsed)
	assert.Equal(t, "gpt-4.1-nano", completion.Model)

	assert.Equal(t, "gpt-4.1-nano", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	assert.Equal(t, 150, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestChatJSONModeSetsResponseFormat(t *testing.T) {
	var got chatCompletionRequest
	server := newTestServer(t, &got, `{
		"model": "gpt-4.1-nano",
		"choices": [{"message": {"role": "assistant", "content": "{\"intent\":\"pricing\"}"}}],
		"usage": {"total_tokens": 8}
	}`)
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "test-key", "gpt-4.1-nano")
	_, err := provider.Generate(context.Background(), "classify this", llm.WithJSONMode())
	require.NoError(t, err)

	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var got chatCompletionRequest
	server := newTestServer(t, &got, `{
		"model": "m",
		"choices": [{"message": {"role": "assistant", "content": "ok"}}],
		"usage": {"total_tokens": 1}
	}`)
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "k", "m")
	_, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "model", Content: "previous answer"},
	})
	require.NoError(t, err)
	assert.Equal(t, "assistant", got.Messages[0].Role)
}

func TestChatErrorsOnEmptyChoices(t *testing.T) {
	var got chatCompletionRequest
	server := newTestServer(t, &got, `{"model": "m", "choices": [], "usage": {"total_tokens": 0}}`)
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "k", "m")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}

func TestChatErrorsOnHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "k", "m")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
