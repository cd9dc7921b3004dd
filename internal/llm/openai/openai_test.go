package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-api/internal/llm"
)

func testOptions() llm.Options {
	return llm.Options{
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   500,
	}
}

func TestGenerateReturnsCompletion(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "Our return window is 30 days."}}],
			"usage": {"total_tokens": 42}
		}`))
	}))
	defer server.Close()

	provider := New("test-key", server.URL)
	text, err := provider.Generate(context.Background(), "what is the return policy", testOptions())
	require.NoError(t, err)
	assert.Equal(t, "Our return window is 30 days.", text)
}

func TestGenerateEmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	provider := New("test-key", server.URL)
	_, err := provider.Generate(context.Background(), "hello", testOptions())
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
}

func TestGenerateRateLimitIsTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := New("test-key", server.URL)
	_, err := provider.Generate(context.Background(), "hello", testOptions())
	require.Error(t, err)
	assert.True(t, llm.IsTransient(err))
}

func TestGenerateBadRequestIsPermanent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "invalid model"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	provider := New("test-key", server.URL)
	_, err := provider.Generate(context.Background(), "hello", testOptions())
	require.Error(t, err)
	assert.False(t, llm.IsTransient(err))
}

func TestGenerateRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := New("test-key", server.URL)
	_, err := provider.Generate(ctx, "hello", testOptions())
	require.Error(t, err)
}
