package generative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClient(baseURL string) *Client {
	return NewClient(&config.GenerativeConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		MaxTokens:   800,
		Temperature: 0.3,
		TopP:        0.8,
		Timeout:     5 * time.Second,
	}, testLogger())
}

func TestGenerate_RequestShape(t *testing.T) {
	var captured map[string]interface{}
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"content":"  Gold remains a solid hedge.  "}}]}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	text, err := client.Generate(context.Background(), "is gold a hedge?")
	require.NoError(t, err)
	assert.Equal(t, "Gold remains a solid hedge.", text)

	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Equal(t, 0.3, captured["temperature"])
	assert.Equal(t, 0.8, captured["top_p"])
	assert.Equal(t, float64(800), captured["max_tokens"])

	stop, ok := captured["stop"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, stop, "END_RESPONSE")
}

func TestGenerate_TrailingSlashBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		io.WriteString(w, `{"choices":[{"message":{"content":"ok response"}}]}`)
	}))
	defer server.Close()

	client := testClient(server.URL + "/")
	text, err := client.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok response", text)
}

func TestGenerate_NonOKStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "failed calls are not retried")
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"message":"model overloaded"}}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestGenerate_NotConfigured(t *testing.T) {
	client := NewClient(&config.GenerativeConfig{Timeout: time.Second}, testLogger())
	assert.False(t, client.Available())

	_, err := client.Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	quote := &models.PriceQuote{CurrentPrice: 2018.45, Change24h: -12.3}

	prompt := BuildPrompt("why does gold track inflation?", quote)
	assert.Contains(t, prompt, `"why does gold track inflation?"`)
	assert.Contains(t, prompt, "$2018.45/oz (-12.30)")

	prompt = BuildPrompt("why does gold track inflation?", nil)
	assert.NotContains(t, prompt, "Current gold")
}
