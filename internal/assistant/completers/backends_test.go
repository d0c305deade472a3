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

// capture records the last request path and decoded JSON body.
type capture struct {
	mu   sync.Mutex
	path string
	body map[string]any
}

func (c *capture) handler(t *testing.T, reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.path = r.URL.Path
		c.body = nil
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c.body))
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}
}

func (c *capture) get() (string, map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path, c.body
}

func TestAnthropic_Complete(t *testing.T) {
	var c capture
	srv := httptest.NewServer(c.handler(t, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-latest",
		"content": [{"type": "text", "text": "Go early, "}, {"type": "text", "text": "before the heat."}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 6}
	}`))
	defer srv.Close()

	a, err := NewAnthropic(srv.Client(), "test-key", srv.URL, "")
	require.NoError(t, err)

	reply, err := a.Complete(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "Go early, before the heat.", reply)

	path, body := c.get()
	assert.True(t, strings.HasSuffix(path, "/v1/messages"), path)
	assert.Equal(t, DefaultAnthropicModel, body["model"])

	system, ok := body["system"].([]any)
	require.True(t, ok, "policy goes into the system field")
	require.Len(t, system, 1)
	assert.Equal(t, "policy", system[0].(map[string]any)["text"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1, "system messages are not sent as turns")
	first := msgs[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	content := first["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, testMessages[1].Content, content[0].(map[string]any)["text"])
}

func TestAnthropic_EmptyContent(t *testing.T) {
	var c capture
	srv := httptest.NewServer(c.handler(t, `{
		"id": "msg_02", "type": "message", "role": "assistant", "model": "m",
		"content": [], "stop_reason": "end_turn",
		"usage": {"input_tokens": 1, "output_tokens": 0}
	}`))
	defer srv.Close()

	a, err := NewAnthropic(srv.Client(), "test-key", srv.URL, "m")
	require.NoError(t, err)

	_, err = a.Complete(context.Background(), testMessages)
	assert.ErrorContains(t, err, "anthropic returned no content")
}

func TestGemini_Complete(t *testing.T) {
	var c capture
	srv := httptest.NewServer(c.handler(t, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "Carry an umbrella."}]},
			"finishReason": "STOP"
		}]
	}`))
	defer srv.Close()

	g, err := NewGemini(context.Background(), srv.Client(), "test-key", srv.URL+"/", "")
	require.NoError(t, err)

	reply, err := g.Complete(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "Carry an umbrella.", reply)

	path, body := c.get()
	assert.Contains(t, path, DefaultGeminiModel+":generateContent")

	instruction, ok := body["systemInstruction"].(map[string]any)
	require.True(t, ok, "policy goes into systemInstruction")
	parts := instruction["parts"].([]any)
	require.Len(t, parts, 1)
	assert.Equal(t, "policy", parts[0].(map[string]any)["text"])

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	turn := contents[0].(map[string]any)
	assert.Equal(t, "user", turn["role"])
	assert.Equal(t, testMessages[1].Content, turn["parts"].([]any)[0].(map[string]any)["text"])
}

func TestGemini_EmptyContent(t *testing.T) {
	var c capture
	srv := httptest.NewServer(c.handler(t, `{"candidates": []}`))
	defer srv.Close()

	g, err := NewGemini(context.Background(), srv.Client(), "test-key", srv.URL+"/", "")
	require.NoError(t, err)

	_, err = g.Complete(context.Background(), testMessages)
	assert.ErrorContains(t, err, "gemini returned no content")
}
