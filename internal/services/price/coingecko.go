package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// GramsPerTroyOunce converts between the two gold weight units in use.
const GramsPerTroyOunce = 31.1035

// CoinGeckoSource fetches the gold price from the CoinGecko simple-price
// API. CoinGecko quotes per gram, so the price is converted to troy
// ounces before being returned.
type CoinGeckoSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewCoinGeckoSource creates a CoinGecko price source
func NewCoinGeckoSource(cfg *config.CoinGeckoConfig, logger *logrus.Logger) *CoinGeckoSource {
	return &CoinGeckoSource{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (s *CoinGeckoSource) Name() string {
	return string(models.SourceCoinGecko)
}

type coinGeckoEntry struct {
	USD          float64 `json:"usd"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// Fetch retrieves the current gold quote
func (s *CoinGeckoSource) Fetch(ctx context.Context) (*models.PriceQuote, error) {
	params := url.Values{}
	params.Set("ids", "gold")
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")

	reqURL := fmt.Sprintf("%s/api/v3/simple/price?%s", s.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

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
		return nil, fmt.Errorf("coingecko request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]coinGeckoEntry
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	entry, ok := result["gold"]
	if !ok {
		return nil, fmt.Errorf("no gold entry in response")
	}

	s.logger.Debug("CoinGecko response received")

	pricePerOz := entry.USD * GramsPerTroyOunce
	changePercent := entry.USD24hChange

	return &models.PriceQuote{
		CurrentPrice:  round2(pricePerOz),
		Currency:      "USD",
		Unit:          "oz",
		Change24h:     round2(changePercent * pricePerOz / 100),
		ChangePercent: round2(changePercent),
		High24h:       round2(pricePerOz * 1.01),
		Low24h:        round2(pricePerOz * 0.99),
		LastUpdated:   time.Now(),
		Source:        models.SourceCoinGecko,
	}, nil
}
