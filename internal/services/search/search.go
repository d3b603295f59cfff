package search

import (
	"context"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// MaxResults caps how many snippets are surfaced to the caller.
const MaxResults = 3

// Service retrieves news snippets as supplementary context. Fetch is
// total: on any provider failure, or when no provider is configured,
// it returns an empty slice. Callers must treat empty as "no context",
// not as an error.
type Service interface {
	Fetch(ctx context.Context, query string) []models.SearchResult
}

type newsService struct {
	client *NewsAPIClient
	logger *logrus.Logger
}

// NewService creates the search adapter. Without an API key the adapter
// is a permanent no-op.
func NewService(cfg *config.NewsConfig, logger *logrus.Logger) Service {
	if cfg.APIKey == "" {
		logger.Info("News provider not configured, search disabled")
		return &newsService{logger: logger}
	}
	return &newsService{
		client: NewNewsAPIClient(cfg, logger),
		logger: logger,
	}
}

func (s *newsService) Fetch(ctx context.Context, query string) []models.SearchResult {
	if s.client == nil {
		return nil
	}

	results, err := s.client.Search(ctx, query)
	if err != nil {
		s.logger.WithError(err).Warn("News search failed, continuing without context")
		return nil
	}

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}
