package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// NewsAPIClient queries the NewsAPI "everything" endpoint for recent
// gold-market articles.
type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewNewsAPIClient creates a NewsAPI client
func NewNewsAPIClient(cfg *config.NewsConfig, logger *logrus.Logger) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		pageSize: cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type newsAPIResponse struct {
	Status   string    `json:"status"`
	Articles []article `json:"articles"`
}

// Search queries recent articles scoped to the gold market
func (c *NewsAPIClient) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("gold %s", query))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("language", "en")
	params.Set("apiKey", c.apiKey)

	reqURL := fmt.Sprintf("%s/v2/everything?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result newsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(result.Articles))
	for _, a := range result.Articles {
		results = append(results, models.SearchResult{
			Title:     a.Title,
			Snippet:   a.Description,
			Link:      a.URL,
			Published: a.PublishedAt,
		})
	}

	c.logger.WithField("results", len(results)).Debug("News search completed")
	return results, nil
}
