package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{Model: "m"})
	assert.Error(t, err)

	client, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1", client.(*OpenAIClient).BaseURL)
}

func TestOpenAIClientChatCompletionWithUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "test-model-2024",
			"choices": [{"message": {"content": "hello"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
		}`))
	}))
	defer server.Close()

	client := &OpenAIClient{APIKey: "secret", BaseURL: server.URL + "/"}
	resp, err := client.ChatCompletionWithUsage(context.Background(), "test-model", "hi", 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
	assert.Equal(t, "openai", resp.Usage.Provider)
	assert.Equal(t, "test-model-2024", resp.Usage.Model)
}

func TestOpenAIClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("case") {
		case "empty":
			_, _ = w.Write([]byte(`{"choices": []}`))
		default:
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}
	}))
	defer server.Close()

	tests := []struct {
		name    string
		baseURL string
		model   string
	}{
		{"missing model", server.URL, ""},
		{"http status", server.URL, "m"},
		{"no choices", server.URL + "/x?case=empty#", "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &OpenAIClient{APIKey: "k", BaseURL: tt.baseURL}
			_, err := client.ChatCompletion(context.Background(), tt.model, "hi", 10)
			assert.Error(t, err)
		})
	}
}

func TestMockLLMClient(t *testing.T) {
	mock := &MockLLMClient{Response: "ok"}
	resp, err := mock.ChatCompletionWithUsage(context.Background(), "m", "prompt", 10)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, "mock", resp.Usage.Provider)
	assert.Equal(t, 1, mock.Calls)
}
