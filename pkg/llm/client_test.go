package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
	Messages    []json.RawMessage `json:"messages"`
}

type chatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

func completion(text string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1760000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": text},
		}},
	}
}

func newTestServer(t *testing.T, handle func(t *testing.T, req chatRequest) (int, any)) (*httptest.Server, *int32) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handle(t, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func testConfig(url string) Config {
	return Config{
		BaseURL:     url + "/v1/",
		APIKey:      "test-key",
		Model:       "test-model",
		VisionModel: "test-vision",
		Temperature: 0.6,
		MaxTokens:   256,
		Timeout:     5 * time.Second,
	}
}

func TestGenerate_Text(t *testing.T) {
	server, hits := newTestServer(t, func(t *testing.T, req chatRequest) (int, any) {
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 0.6, req.Temperature)
		assert.Equal(t, 256, req.MaxTokens)
		require.Len(t, req.Messages, 2)

		var system, user chatMessage
		require.NoError(t, json.Unmarshal(req.Messages[0], &system))
		require.NoError(t, json.Unmarshal(req.Messages[1], &user))
		assert.Equal(t, "system", system.Role)
		assert.Equal(t, `"You are a nutritionist."`, string(system.Content))
		assert.Equal(t, "user", user.Role)
		assert.Equal(t, `"Is buckwheat healthy?"`, string(user.Content))

		return http.StatusOK, completion("  Yes, it is.  ")
	})

	c := NewClient(testConfig(server.URL), nil)
	got, err := c.Generate(context.Background(), Request{
		Directive: "You are a nutritionist.",
		UserText:  "Is buckwheat healthy?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Yes, it is.", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGenerate_RequestOverrides(t *testing.T) {
	server, _ := newTestServer(t, func(t *testing.T, req chatRequest) (int, any) {
		assert.Equal(t, 0.9, req.Temperature)
		assert.Equal(t, 64, req.MaxTokens)
		assert.Len(t, req.Messages, 1, "no system message without a directive")
		return http.StatusOK, completion("ok")
	})

	c := NewClient(testConfig(server.URL), nil)
	_, err := c.Generate(context.Background(), Request{UserText: "hi", Temperature: 0.9, MaxTokens: 64})
	require.NoError(t, err)
}

func TestGenerate_Image(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))

	server, _ := newTestServer(t, func(t *testing.T, req chatRequest) (int, any) {
		assert.Equal(t, "test-vision", req.Model)
		require.Len(t, req.Messages, 2)

		var user chatMessage
		require.NoError(t, json.Unmarshal(req.Messages[1], &user))

		var parts []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		}
		require.NoError(t, json.Unmarshal(user.Content, &parts))
		require.Len(t, parts, 2)
		assert.Equal(t, "text", parts[0].Type)
		assert.Equal(t, "What is on the plate?", parts[0].Text)
		assert.Equal(t, "image_url", parts[1].Type)
		assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,"))

		return http.StatusOK, completion("Greek salad\nAbout 250 kcal")
	})

	c := NewClient(testConfig(server.URL), nil)
	got, err := c.Generate(context.Background(), Request{
		Directive: "You are a nutritionist.",
		UserText:  "What is on the plate?",
		Image:     buf.Bytes(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Greek salad\nAbout 250 kcal", got)
}

func TestGenerate_BadImageNeverCallsBackend(t *testing.T) {
	server, hits := newTestServer(t, func(t *testing.T, req chatRequest) (int, any) {
		return http.StatusOK, completion("unreachable")
	})

	c := NewClient(testConfig(server.URL), nil)
	_, err := c.Generate(context.Background(), Request{UserText: "?", Image: []byte("nope")})

	assert.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestGenerate_ServerErrorIsNotRetried(t *testing.T) {
	server, hits := newTestServer(t, func(t *testing.T, req chatRequest) (int, any) {
		return http.StatusInternalServerError, map[string]any{"error": map[string]any{"message": "overloaded"}}
	})

	c := NewClient(testConfig(server.URL), nil)
	_, err := c.Generate(context.Background(), Request{UserText: "hi"})

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGenerate_EmptyResponse(t *testing.T) {
	server, _ := newTestServer(t, func(t *testing.T, req chatRequest) (int, any) {
		return http.StatusOK, completion("   ")
	})

	c := NewClient(testConfig(server.URL), nil)
	_, err := c.Generate(context.Background(), Request{UserText: "hi"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	c := NewClient(cfg, nil)

	start := time.Now()
	_, err := c.Generate(context.Background(), Request{UserText: "hi"})

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
