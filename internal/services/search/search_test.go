package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const articlesBody = `{
	"status": "ok",
	"articles": [
		{"title": "Gold hits record", "description": "Spot gold climbed", "url": "https://example.com/a", "publishedAt": "2024-03-01T09:00:00Z"},
		{"title": "Central banks buy", "description": "Reserves grow", "url": "https://example.com/b", "publishedAt": "2024-03-01T08:00:00Z"},
		{"title": "Miners rally", "description": "Equities follow", "url": "https://example.com/c", "publishedAt": "2024-03-01T07:00:00Z"},
		{"title": "Fourth story", "description": "Extra", "url": "https://example.com/d", "publishedAt": "2024-03-01T06:00:00Z"}
	]
}`

func newsConfig(baseURL string) *config.NewsConfig {
	return &config.NewsConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Timeout:  time.Second,
		PageSize: 3,
	}
}

func TestNewsAPIClient_MapsArticles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "gold market news", r.URL.Query().Get("q"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "3", r.URL.Query().Get("pageSize"))
		w.Write([]byte(articlesBody))
	}))
	defer server.Close()

	client := NewNewsAPIClient(newsConfig(server.URL), testLogger())

	results, err := client.Search(context.Background(), "market news")
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, "Gold hits record", results[0].Title)
	assert.Equal(t, "Spot gold climbed", results[0].Snippet)
	assert.Equal(t, "https://example.com/a", results[0].Link)
	assert.Equal(t, "2024-03-01T09:00:00Z", results[0].Published)
}

func TestNewsAPIClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewNewsAPIClient(newsConfig(server.URL), testLogger())

	_, err := client.Search(context.Background(), "market news")
	assert.Error(t, err)
}

func TestService_EmptyWithoutAPIKey(t *testing.T) {
	service := NewService(&config.NewsConfig{}, testLogger())
	assert.Empty(t, service.Fetch(context.Background(), "market news"))
}

func TestService_EmptyOnProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewService(newsConfig(server.URL), testLogger())
	assert.Empty(t, service.Fetch(context.Background(), "market news"))
}

func TestService_CapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlesBody))
	}))
	defer server.Close()

	service := NewService(newsConfig(server.URL), testLogger())
	results := service.Fetch(context.Background(), "market news")
	assert.Len(t, results, MaxResults)
}
