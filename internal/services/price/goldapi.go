package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// GoldAPISource fetches XAU/USD from goldapi.io.
type GoldAPISource struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGoldAPISource creates a GoldAPI price source
func NewGoldAPISource(cfg *config.GoldAPIConfig, logger *logrus.Logger) *GoldAPISource {
	return &GoldAPISource{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (s *GoldAPISource) Name() string {
	return string(models.SourceGoldAPI)
}

type goldAPIResponse struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"ch"`
	ChangePercent float64 `json:"chp"`
	HighPrice     float64 `json:"high_price"`
	LowPrice      float64 `json:"low_price"`
}

// Fetch retrieves the current XAU/USD quote
func (s *GoldAPISource) Fetch(ctx context.Context) (*models.PriceQuote, error) {
	url := fmt.Sprintf("%s/api/XAU/USD", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-access-token", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("goldapi request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result goldAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	s.logger.Debug("GoldAPI response received")

	return &models.PriceQuote{
		CurrentPrice:  result.Price,
		Currency:      "USD",
		Unit:          "oz",
		Change24h:     result.Change,
		ChangePercent: result.ChangePercent,
		High24h:       result.HighPrice,
		Low24h:        result.LowPrice,
		LastUpdated:   time.Now(),
		Source:        models.SourceGoldAPI,
	}, nil
}
