package completers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, nil, Options{})
	require.NoError(t, err)
	assert.IsType(t, &Relay{}, c)

	c, err = New(ctx, nil, Options{Provider: ProviderOpenAI, OpenAIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	c, err = New(ctx, nil, Options{Provider: ProviderAnthropic, AnthropicKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, c)

	c, err = New(ctx, nil, Options{Provider: ProviderGemini, GeminiKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Gemini{}, c)

	for _, p := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		_, err := New(ctx, nil, Options{Provider: p})
		assert.Error(t, err, "%s without a key", p)
	}

	_, err = New(ctx, nil, Options{Provider: "llama"})
	assert.ErrorContains(t, err, `unknown chat provider "llama"`)
}

func TestOpenAI_Complete(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Pack a jacket."}}]
		}`))
	}))
	defer srv.Close()

	c, err := NewOpenAI(srv.Client(), "test-key", srv.URL, "")
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "Pack a jacket.", reply)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.HasSuffix(path, "/chat/completions"), path)
	assert.Equal(t, DefaultOpenAIModel, body["model"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}
