package price

import (
	"context"
	"math"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Source fetches a gold price quote from a single provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*models.PriceQuote, error)
}

// Chain tries an ordered list of sources and falls back to a synthesized
// quote when every provider fails. Fetch is total: it never returns nil.
type Chain struct {
	sources   []Source
	synthetic *SyntheticSource
	logger    *logrus.Logger
}

// NewChain builds the default provider chain from configuration:
// GoldAPI first, CoinGecko second, synthesized last.
func NewChain(cfg *config.ProvidersConfig, logger *logrus.Logger) *Chain {
	sources := []Source{}
	if cfg.GoldAPI.APIKey != "" {
		sources = append(sources, NewGoldAPISource(&cfg.GoldAPI, logger))
	}
	sources = append(sources, NewCoinGeckoSource(&cfg.CoinGecko, logger))

	return &Chain{
		sources:   sources,
		synthetic: NewSyntheticSource(),
		logger:    logger,
	}
}

// NewChainWithSources builds a chain over explicit sources.
func NewChainWithSources(logger *logrus.Logger, sources ...Source) *Chain {
	return &Chain{
		sources:   sources,
		synthetic: NewSyntheticSource(),
		logger:    logger,
	}
}

// Fetch returns the first valid quote from the source chain, or a
// synthesized one when all providers fail.
func (c *Chain) Fetch(ctx context.Context) *models.PriceQuote {
	for _, source := range c.sources {
		quote, err := source.Fetch(ctx)
		if err != nil {
			c.logger.WithError(err).WithField("source", source.Name()).Warn("Price source failed, trying next")
			continue
		}

		if !validQuote(quote) {
			c.logger.WithFields(logrus.Fields{
				"source": source.Name(),
				"price":  quote.CurrentPrice,
			}).Warn("Invalid quote received from source, trying next")
			continue
		}

		clampQuote(quote)
		c.logger.WithFields(logrus.Fields{
			"source": source.Name(),
			"price":  quote.CurrentPrice,
		}).Debug("Gold price fetched")
		return quote
	}

	c.logger.Warn("All price sources failed, synthesizing quote")
	quote, _ := c.synthetic.Fetch(ctx)
	clampQuote(quote)
	return quote
}

func validQuote(q *models.PriceQuote) bool {
	if q == nil {
		return false
	}
	if q.CurrentPrice <= 0 || math.IsNaN(q.CurrentPrice) || math.IsInf(q.CurrentPrice, 0) {
		return false
	}
	return true
}

// clampQuote widens the 24h range so that high >= current >= low always
// holds, regardless of what the provider reported.
func clampQuote(q *models.PriceQuote) {
	if q.High24h < q.CurrentPrice {
		q.High24h = q.CurrentPrice
	}
	if q.Low24h > q.CurrentPrice || q.Low24h <= 0 {
		q.Low24h = q.CurrentPrice
	}
	if q.LastUpdated.IsZero() {
		q.LastUpdated = time.Now()
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
